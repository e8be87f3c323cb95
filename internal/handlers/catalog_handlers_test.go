package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
)

type stubCatalogRepo struct {
	hotels map[primitive.ObjectID]*models.Hotel
	items  map[primitive.ObjectID]*models.Item
}

func (r *stubCatalogRepo) FindSession(context.Context, primitive.ObjectID) (*models.Session, error) {
	return nil, fmt.Errorf("session %w", apperr.ErrNotFound)
}

func (r *stubCatalogRepo) FindItem(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	if i, ok := r.items[id]; ok {
		return i, nil
	}
	return nil, fmt.Errorf("item %w", apperr.ErrNotFound)
}

func (r *stubCatalogRepo) FindHotel(_ context.Context, id primitive.ObjectID) (*models.Hotel, error) {
	if h, ok := r.hotels[id]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("hotel %w", apperr.ErrNotFound)
}

func (r *stubCatalogRepo) FindAdventure(context.Context, primitive.ObjectID) (*models.Adventure, error) {
	return nil, fmt.Errorf("adventure %w", apperr.ErrNotFound)
}

func (r *stubCatalogRepo) ListAdventures(context.Context) ([]models.Adventure, error) {
	return nil, nil
}

func (r *stubCatalogRepo) ListHotels(context.Context) ([]models.Hotel, error) { return nil, nil }

func (r *stubCatalogRepo) ListItems(context.Context) ([]models.Item, error) { return nil, nil }

type stubTermsRepo struct {
	live []models.Term
}

func (r *stubTermsRepo) ListLive(context.Context) ([]models.Term, error) {
	return r.live, nil
}

func newCatalogApp(catalog *stubCatalogRepo, terms *stubTermsRepo) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.Status(err)).JSON(fiber.Map{"error": err.Error()})
		},
	})
	ch := NewCatalogHandler(catalog)
	th := NewTermsHandler(terms)
	app.Get("/hotels/:id", ch.GetHotel)
	app.Get("/items/:id", ch.GetItem)
	app.Get("/terms/live", th.ListLive)
	return app
}

func getPath(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestGetHotelByID(t *testing.T) {
	hotel := &models.Hotel{ID: primitive.NewObjectID(), Name: "Refuge", PricePerNight: 80}
	app := newCatalogApp(&stubCatalogRepo{
		hotels: map[primitive.ObjectID]*models.Hotel{hotel.ID: hotel},
	}, &stubTermsRepo{})

	resp := getPath(t, app, "/hotels/"+hotel.ID.Hex())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Hotel models.Hotel `json:"hotel"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Hotel.Name != "Refuge" {
		t.Fatalf("hotel name = %q", body.Hotel.Name)
	}

	resp = getPath(t, app, "/hotels/"+primitive.NewObjectID().Hex())
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown hotel: status = %d, want 404", resp.StatusCode)
	}

	resp = getPath(t, app, "/hotels/not-an-id")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed id: status = %d, want 400", resp.StatusCode)
	}
}

func TestGetItemByID(t *testing.T) {
	item := &models.Item{ID: primitive.NewObjectID(), Name: "Harness", Price: 25, Rentable: true}
	app := newCatalogApp(&stubCatalogRepo{
		items: map[primitive.ObjectID]*models.Item{item.ID: item},
	}, &stubTermsRepo{})

	resp := getPath(t, app, "/items/"+item.ID.Hex())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Item models.Item `json:"item"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Item.Name != "Harness" || !body.Item.Rentable {
		t.Fatalf("item = %+v", body.Item)
	}

	resp = getPath(t, app, "/items/"+primitive.NewObjectID().Hex())
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown item: status = %d, want 404", resp.StatusCode)
	}
}

func TestListLiveTerms(t *testing.T) {
	app := newCatalogApp(&stubCatalogRepo{}, &stubTermsRepo{live: []models.Term{
		{ID: primitive.NewObjectID(), Title: "Terms of Service", Version: "2.1", Live: true},
	}})

	resp := getPath(t, app, "/terms/live")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Terms []models.Term `json:"terms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Terms) != 1 || body.Terms[0].Version != "2.1" {
		t.Fatalf("terms = %+v", body.Terms)
	}
}
