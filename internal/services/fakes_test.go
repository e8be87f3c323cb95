package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/media"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
	"github.com/saquibjawedbit/Booking-Web/internal/oauth"
	"github.com/saquibjawedbit/Booking-Web/internal/payment"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("duplicate email: %w", apperr.ErrConflict)
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user: %w", apperr.ErrNotFound)
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", apperr.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user: %w", apperr.ErrNotFound)
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", apperr.ErrNotFound)
	}
	u.RefreshToken = token
	return nil
}

type fakeOtpRepo struct {
	mu   sync.Mutex
	otps map[primitive.ObjectID]*models.Otp // keyed by user
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{otps: map[primitive.ObjectID]*models.Otp{}}
}

func (r *fakeOtpRepo) Replace(_ context.Context, otp *models.Otp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp.ID = primitive.NewObjectID()
	cp := *otp
	r.otps[otp.UserID] = &cp
	return nil
}

func (r *fakeOtpRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Otp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp, ok := r.otps[userID]
	if !ok {
		return nil, fmt.Errorf("otp: %w", apperr.ErrNotFound)
	}
	cp := *otp
	return &cp, nil
}

func (r *fakeOtpRepo) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, otp := range r.otps {
		if otp.ID == id {
			otp.Verified = true
			return nil
		}
	}
	return fmt.Errorf("otp: %w", apperr.ErrNotFound)
}

func (r *fakeOtpRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.otps, userID)
	return nil
}

type fakeInstructorRepo struct {
	mu          sync.Mutex
	instructors map[primitive.ObjectID]*models.Instructor
}

func newFakeInstructorRepo() *fakeInstructorRepo {
	return &fakeInstructorRepo{instructors: map[primitive.ObjectID]*models.Instructor{}}
}

func (r *fakeInstructorRepo) Create(_ context.Context, ins *models.Instructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ins.ID = primitive.NewObjectID()
	cp := *ins
	r.instructors[ins.ID] = &cp
	return nil
}

func (r *fakeInstructorRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Instructor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ins, ok := r.instructors[id]
	if !ok {
		return nil, fmt.Errorf("instructor: %w", apperr.ErrNotFound)
	}
	cp := *ins
	return &cp, nil
}

type sentMail struct {
	To      string
	Subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, toEmail, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: toEmail, Subject: subject})
	return nil
}

func (m *fakeMailer) IsConfigured() bool { return true }

type fakeProvider struct {
	profile oauth.Profile
	err     error
}

func (p fakeProvider) Exchange(context.Context, string) (oauth.Profile, error) {
	return p.profile, p.err
}

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string // kind/name
	fail     bool
}

func (u *fakeUploader) Upload(_ context.Context, kind string, f media.File) (string, error) {
	if u.fail {
		return "", fmt.Errorf("s3 unavailable")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploaded = append(u.uploaded, kind+"/"+f.Name)
	return "https://cdn.example.com/" + kind + "/" + f.Name, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string) error {
	return fmt.Errorf("too many OTP requests: %w", apperr.ErrRateLimited)
}

type fakePayment struct {
	mu       sync.Mutex
	requests []payment.CheckoutRequest
	fail     bool
}

func (p *fakePayment) CreateCheckout(_ context.Context, req payment.CheckoutRequest) (string, error) {
	if p.fail {
		return "", fmt.Errorf("payment processor down: %w", apperr.ErrUpstream)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	return "https://pay.example.com/checkout/" + req.Reference, nil
}

type fakeCatalogRepo struct {
	sessions map[primitive.ObjectID]*models.Session
	items    map[primitive.ObjectID]*models.Item
	hotels   map[primitive.ObjectID]*models.Hotel
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		sessions: map[primitive.ObjectID]*models.Session{},
		items:    map[primitive.ObjectID]*models.Item{},
		hotels:   map[primitive.ObjectID]*models.Hotel{},
	}
}

func (r *fakeCatalogRepo) FindSession(_ context.Context, id primitive.ObjectID) (*models.Session, error) {
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("session: %w", apperr.ErrNotFound)
}

func (r *fakeCatalogRepo) FindItem(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	if i, ok := r.items[id]; ok {
		return i, nil
	}
	return nil, fmt.Errorf("item: %w", apperr.ErrNotFound)
}

func (r *fakeCatalogRepo) FindHotel(_ context.Context, id primitive.ObjectID) (*models.Hotel, error) {
	if h, ok := r.hotels[id]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("hotel: %w", apperr.ErrNotFound)
}

func (r *fakeCatalogRepo) FindAdventure(context.Context, primitive.ObjectID) (*models.Adventure, error) {
	return nil, fmt.Errorf("adventure: %w", apperr.ErrNotFound)
}

func (r *fakeCatalogRepo) ListAdventures(context.Context) ([]models.Adventure, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ListHotels(context.Context) ([]models.Hotel, error) { return nil, nil }

func (r *fakeCatalogRepo) ListItems(context.Context) ([]models.Item, error) { return nil, nil }

type fakeDeclarationRepo struct {
	declarations map[primitive.ObjectID]*models.Declaration
}

func newFakeDeclarationRepo() *fakeDeclarationRepo {
	return &fakeDeclarationRepo{declarations: map[primitive.ObjectID]*models.Declaration{}}
}

func (r *fakeDeclarationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Declaration, error) {
	if d, ok := r.declarations[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("declaration: %w", apperr.ErrNotFound)
}

func (r *fakeDeclarationRepo) FindByAdventure(_ context.Context, adventureID primitive.ObjectID) ([]models.Declaration, error) {
	var out []models.Declaration
	for _, d := range r.declarations {
		if d.Covers(adventureID) {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	sessions []*models.SessionBooking
	items    []*models.ItemBooking
	hotels   []*models.HotelBooking
}

func (r *fakeBookingRepo) CreateSessionBooking(_ context.Context, b *models.SessionBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = primitive.NewObjectID()
	r.sessions = append(r.sessions, b)
	return nil
}

func (r *fakeBookingRepo) CreateItemBooking(_ context.Context, b *models.ItemBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = primitive.NewObjectID()
	r.items = append(r.items, b)
	return nil
}

func (r *fakeBookingRepo) CreateHotelBooking(_ context.Context, b *models.HotelBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = primitive.NewObjectID()
	r.hotels = append(r.hotels, b)
	return nil
}

func fileOf(name string) *media.File {
	return &media.File{Name: name, ContentType: "image/png", Content: strings.NewReader("png")}
}
