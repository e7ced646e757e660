package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/miralles/wedding-rsvp-api/api"
	"github.com/miralles/wedding-rsvp-api/api/handlers"
	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/databases/mocks"
	"github.com/miralles/wedding-rsvp-api/invites"
	"github.com/miralles/wedding-rsvp-api/models"
)

// rsvpHandlerFor builds the handler over mocked collections with a
// passthrough transaction boundary.
func rsvpHandlerFor(codesColl, rsvpsColl *mocks.CollectionHelper) handlers.RSVP {
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "invitationCodes").Return(codesColl)
	db.On("Collection", "rsvps").Return(rsvpsColl)

	client := &mocks.ClientHelper{}
	client.On("WithTransaction", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})

	codes := databases.NewInviteCodeDatabase(db)
	rsvps := databases.NewRSVPDatabase(db)

	return handlers.RSVP{
		Recorder: invites.NewRecorder(codes, rsvps, client),
		RSVPs:    rsvps,
		Secret:   testSecret,
	}
}

func bearerFor(t *testing.T, snap *models.CodeSnapshot) string {
	t.Helper()
	token, err := api.NewAccessToken(snap, testSecret)
	assert.NoError(t, err)
	return "Bearer " + token
}

func testSnapshot(oid primitive.ObjectID) *models.CodeSnapshot {
	return &models.CodeSnapshot{
		ID:              oid.Hex(),
		Code:            "SMITH",
		MaxGuests:       2,
		RemainingGuests: 2,
		IsActive:        true,
	}
}

func TestSubmitRSVPHandlerNoToken(t *testing.T) {
	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/rsvp", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.SubmitRSVPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, errBody(t,
		"no validated invitation code for this session",
		"no validated invitation code for this session"), rr.Body.String())
}

func TestSubmitRSVPHandlerBadToken(t *testing.T) {
	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/rsvp", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer not.a.token")
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.SubmitRSVPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSubmitRSVPHandlerSuccess(t *testing.T) {
	oid := primitive.NewObjectID()

	codesColl := &mocks.CollectionHelper{}
	codesColl.On("UpdateOne", mock.Anything, bson.M{"_id": oid}, mock.Anything).
		Return(nil, nil)

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("CountDocuments", mock.Anything, bson.M{"code": "SMITH"}).
		Return(int64(0), nil)
	rsvpsColl.On("InsertOne", mock.Anything, mock.Anything).
		Return(&mocks.InsertOneResultHelper{}, nil)

	rv := rsvpHandlerFor(codesColl, rsvpsColl)

	body := `{"name":"Ana Garcia","email":"ana@example.com","guestsCount":2,"attendance":"si"}`
	req, _ := http.NewRequest("POST", "/api/v1/rsvp", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, testSnapshot(oid)))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.SubmitRSVPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var created models.RSVP
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "SMITH", created.Code)
	assert.Equal(t, models.AttendanceWillAttend, created.Attendance)
	assert.Equal(t, 2, created.GuestsCount)
	codesColl.AssertExpectations(t)
	rsvpsColl.AssertExpectations(t)
}

func TestSubmitRSVPHandlerDuplicate(t *testing.T) {
	oid := primitive.NewObjectID()

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("CountDocuments", mock.Anything, bson.M{"code": "SMITH"}).
		Return(int64(1), nil)

	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, rsvpsColl)

	body := `{"name":"Ana Garcia","email":"ana@example.com","guestsCount":1,"attendance":"si"}`
	req, _ := http.NewRequest("POST", "/api/v1/rsvp", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, testSnapshot(oid)))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.SubmitRSVPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, errBody(t,
		"an RSVP was already submitted for this invitation code",
		"an RSVP was already submitted for this invitation code"), rr.Body.String())
}

func TestSubmitRSVPHandlerCapacityExceeded(t *testing.T) {
	oid := primitive.NewObjectID()

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("CountDocuments", mock.Anything, bson.M{"code": "SMITH"}).
		Return(int64(0), nil)

	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, rsvpsColl)

	body := `{"name":"Ana Garcia","email":"ana@example.com","guestsCount":5,"attendance":"si"}`
	req, _ := http.NewRequest("POST", "/api/v1/rsvp", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, testSnapshot(oid)))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.SubmitRSVPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckExistingHandlerNoToken(t *testing.T) {
	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("GET", "/api/v1/rsvp/exists", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.CheckExistingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exists": false}`, rr.Body.String())
}

func TestCheckExistingHandlerFound(t *testing.T) {
	oid := primitive.NewObjectID()

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("CountDocuments", mock.Anything, bson.M{"code": "SMITH"}).
		Return(int64(1), nil)

	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, rsvpsColl)

	req, _ := http.NewRequest("GET", "/api/v1/rsvp/exists", nil)
	req.Header.Set("Authorization", bearerFor(t, testSnapshot(oid)))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.CheckExistingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exists": true}`, rr.Body.String())
}

func TestDeleteRSVPHandlerBadID(t *testing.T) {
	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("DELETE", "/api/v1/rsvps/asdf", nil)
	req = mux.SetURLVars(req, map[string]string{"rsvp_id": "asdf"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.DeleteRSVPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, errBody(t, "record not found", "record not found"), rr.Body.String())
}

func TestDeleteRSVPHandlerReturnsSeats(t *testing.T) {
	rsvpID := primitive.NewObjectID()
	codeID := primitive.NewObjectID()

	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.RSVP)
		(*arg).ID = rsvpID
		(*arg).Code = "SMITH"
		(*arg).CodeID = codeID.Hex()
		(*arg).GuestsCount = 2
		(*arg).Attendance = models.AttendanceWillAttend
	})

	codesColl := &mocks.CollectionHelper{}
	codesColl.On("UpdateOne", mock.Anything, bson.M{"_id": codeID}, mock.MatchedBy(func(update interface{}) bool {
		u, ok := update.(bson.M)
		if !ok {
			return false
		}
		inc, ok := u["$inc"].(bson.M)
		return ok && inc["usedGuests"] == -2
	})).Return(nil, nil)

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("FindOne", mock.Anything, bson.M{"_id": rsvpID}).Return(sr)
	rsvpsColl.On("DeleteOne", mock.Anything, bson.M{"_id": rsvpID}).Return(nil)

	rv := rsvpHandlerFor(codesColl, rsvpsColl)

	req, _ := http.NewRequest("DELETE", "/api/v1/rsvps/"+rsvpID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"rsvp_id": rsvpID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.DeleteRSVPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "rsvp deleted successfully"}`, rr.Body.String())
	codesColl.AssertExpectations(t)
	rsvpsColl.AssertExpectations(t)
}

func TestRSVPsHandler(t *testing.T) {
	cur := &mocks.CursorHelper{}
	cur.On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.RSVP)
		(*arg) = []models.RSVP{{Name: "Ana Garcia", Code: "SMITH"}}
	})

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return(cur, nil)

	rv := rsvpHandlerFor(&mocks.CollectionHelper{}, rsvpsColl)

	req, _ := http.NewRequest("GET", "/api/v1/rsvps?page=0&limit=10", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.RSVPsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.RSVP
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "SMITH", got[0].Code)
}
