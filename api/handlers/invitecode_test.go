package handlers_test

import (
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
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/miralles/wedding-rsvp-api/api"
	"github.com/miralles/wedding-rsvp-api/api/handlers"
	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/databases/mocks"
	"github.com/miralles/wedding-rsvp-api/invites"
	"github.com/miralles/wedding-rsvp-api/models"
)

const testSecret = "test-secret"

// inviteHandlerFor builds the handler over mocked collections.
func inviteHandlerFor(codesColl, rsvpsColl *mocks.CollectionHelper) handlers.InviteCode {
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "invitationCodes").Return(codesColl)
	db.On("Collection", "rsvps").Return(rsvpsColl)

	codes := databases.NewInviteCodeDatabase(db)
	rsvps := databases.NewRSVPDatabase(db)
	client := &mocks.ClientHelper{}

	return handlers.InviteCode{
		DB:       codes,
		Ledger:   invites.NewLedger(codes),
		Recorder: invites.NewRecorder(codes, rsvps, client),
		Secret:   testSecret,
	}
}

// codeResult mocks a single-document lookup decoding into want.
func codeResult(want models.InvitationCode) *mocks.SingleResultHelper {
	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.InvitationCode)
		**arg = want
	})
	return sr
}

func errBody(t *testing.T, message, errText string) string {
	t.Helper()
	b, err := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{
		Message: message,
		Error:   errText,
	}})
	assert.NoError(t, err)
	return string(b)
}

func TestValidateInviteCodeHandlerEmptyCode(t *testing.T) {
	ic := inviteHandlerFor(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/invitation/validate", strings.NewReader(`{"code":"   "}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.ValidateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errBody(t, "invitation code is required", "invitation code is required"), rr.Body.String())
}

func TestValidateInviteCodeHandlerNotFound(t *testing.T) {
	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	codesColl := &mocks.CollectionHelper{}
	codesColl.On("FindOne", mock.Anything, mock.Anything).Return(sr)

	ic := inviteHandlerFor(codesColl, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/invitation/validate", strings.NewReader(`{"code":"NOPE"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.ValidateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, errBody(t, "invitation code not found", "invitation code not found"), rr.Body.String())
}

func TestValidateInviteCodeHandlerSuccess(t *testing.T) {
	oid := primitive.NewObjectID()
	codesColl := &mocks.CollectionHelper{}
	codesColl.On("FindOne", mock.Anything, mock.Anything).
		Return(codeResult(models.InvitationCode{
			ID:        oid,
			Code:      "SMITH",
			MaxGuests: 2,
			IsActive:  true,
		}))

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	ic := inviteHandlerFor(codesColl, rsvpsColl)

	req, _ := http.NewRequest("POST", "/api/v1/invitation/validate", strings.NewReader(`{"code":"smith","mode":"access"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.ValidateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.ValidateCodeResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "SMITH", resp.Code.Code)
	assert.Equal(t, 2, resp.Code.RemainingGuests)
	assert.False(t, resp.AlreadySubmitted)

	snap, err := api.ParseAccessToken(resp.AccessToken, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "SMITH", snap.Code)
}

func TestValidateInviteCodeHandlerExhaustedRSVPMode(t *testing.T) {
	codesColl := &mocks.CollectionHelper{}
	codesColl.On("FindOne", mock.Anything, mock.Anything).
		Return(codeResult(models.InvitationCode{
			ID:         primitive.NewObjectID(),
			Code:       "SMITH",
			MaxGuests:  2,
			UsedGuests: 2,
			IsActive:   true,
		}))

	ic := inviteHandlerFor(codesColl, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/invitation/validate", strings.NewReader(`{"code":"SMITH","mode":"rsvp"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.ValidateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, errBody(t, "invitation code has no seats remaining", "invitation code has no seats remaining"), rr.Body.String())
}

func TestValidateInviteCodeHandlerExhaustedAccessMode(t *testing.T) {
	codesColl := &mocks.CollectionHelper{}
	codesColl.On("FindOne", mock.Anything, mock.Anything).
		Return(codeResult(models.InvitationCode{
			ID:         primitive.NewObjectID(),
			Code:       "SMITH",
			MaxGuests:  2,
			UsedGuests: 2,
			IsActive:   true,
		}))

	rsvpsColl := &mocks.CollectionHelper{}
	rsvpsColl.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	ic := inviteHandlerFor(codesColl, rsvpsColl)

	req, _ := http.NewRequest("POST", "/api/v1/invitation/validate", strings.NewReader(`{"code":"SMITH","mode":"access"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.ValidateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.ValidateCodeResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.AlreadySubmitted)
	assert.Equal(t, 0, resp.Code.RemainingGuests)
}

func TestCreateInviteCodeHandlerBadGuests(t *testing.T) {
	ic := inviteHandlerFor(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/invitation-codes", strings.NewReader(`{"assignedTo":"The Smiths","maxGuests":0}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.CreateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errBody(t, "maxGuests must be at least 1", ""), rr.Body.String())
}

func TestCreateInviteCodeHandlerDuplicate(t *testing.T) {
	codesColl := &mocks.CollectionHelper{}
	codesColl.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	ic := inviteHandlerFor(codesColl, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/invitation-codes", strings.NewReader(`{"code":"smith","maxGuests":2}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.CreateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, errBody(t, "code already exists", ""), rr.Body.String())
}

func TestCreateInviteCodeHandlerGeneratesCode(t *testing.T) {
	oid := primitive.NewObjectID()

	insertResult := &mocks.InsertOneResultHelper{}
	insertResult.On("Decode").Return(oid)

	codesColl := &mocks.CollectionHelper{}
	codesColl.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	codesColl.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		code, ok := doc.(models.InvitationCode)
		return ok && len(code.Code) == 8 && code.Code == strings.ToUpper(code.Code) &&
			code.MaxGuests == 2 && code.UsedGuests == 0 && code.IsActive
	})).Return(insertResult, nil)

	ic := inviteHandlerFor(codesColl, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/invitation-codes", strings.NewReader(`{"assignedTo":"The Smiths","maxGuests":2}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.CreateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var created models.InvitationCode
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, oid, created.ID)
	assert.Len(t, created.Code, 8)
	assert.Equal(t, "The Smiths", created.AssignedTo)
	codesColl.AssertExpectations(t)
}

func TestInviteCodeByIDHandlerBadHex(t *testing.T) {
	ic := inviteHandlerFor(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("GET", "/api/v1/invitation-codes/asdf", nil)
	req = mux.SetURLVars(req, map[string]string{"code_id": "asdf"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.InviteCodeByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errBody(t, "failed to get objectID from Hex", "the provided hex string is not a valid ObjectID"), rr.Body.String())
}

func TestToggleInviteCodeHandler(t *testing.T) {
	oid := primitive.NewObjectID()

	codesColl := &mocks.CollectionHelper{}
	codesColl.On("FindOne", mock.Anything, mock.Anything).
		Return(codeResult(models.InvitationCode{ID: oid, Code: "SMITH", MaxGuests: 2, IsActive: true}))
	codesColl.On("UpdateOne", mock.Anything, mock.Anything, mock.MatchedBy(func(update interface{}) bool {
		u, ok := update.(bson.M)
		if !ok {
			return false
		}
		set, ok := u["$set"].(bson.M)
		return ok && set["isActive"] == false
	})).Return(nil, nil)

	ic := inviteHandlerFor(codesColl, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("PUT", "/api/v1/invitation-codes/"+oid.Hex()+"/toggle", nil)
	req = mux.SetURLVars(req, map[string]string{"code_id": oid.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.ToggleInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"isActive": false}`, rr.Body.String())
	codesColl.AssertExpectations(t)
}

func TestUpdateInviteCodeHandlerRestrictedFields(t *testing.T) {
	oid := primitive.NewObjectID()

	codesColl := &mocks.CollectionHelper{}
	codesColl.On("UpdateOne", mock.Anything, mock.Anything, mock.MatchedBy(func(update interface{}) bool {
		u, ok := update.(bson.M)
		if !ok {
			return false
		}
		set, ok := u["$set"].(bson.M)
		if !ok {
			return false
		}
		// the code string and used counter must never be editable here
		_, hasCode := set["code"]
		_, hasUsed := set["usedGuests"]
		return !hasCode && !hasUsed && set["maxGuests"] == 3 && set["assignedTo"] == "The Smith Family"
	})).Return(nil, nil)

	ic := inviteHandlerFor(codesColl, &mocks.CollectionHelper{})

	body := `{"assignedTo":"The Smith Family","maxGuests":3}`
	req, _ := http.NewRequest("PATCH", "/api/v1/invitation-codes/"+oid.Hex(), strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"code_id": oid.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.UpdateInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	codesColl.AssertExpectations(t)
}

func TestDeleteInviteCodeHandlerNotFound(t *testing.T) {
	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	codesColl := &mocks.CollectionHelper{}
	codesColl.On("FindOne", mock.Anything, mock.Anything).Return(sr)

	ic := inviteHandlerFor(codesColl, &mocks.CollectionHelper{})

	oid := primitive.NewObjectID()
	req, _ := http.NewRequest("DELETE", "/api/v1/invitation-codes/"+oid.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"code_id": oid.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(ic.DeleteInviteCodeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
