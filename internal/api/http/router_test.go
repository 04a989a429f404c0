package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/huddle/internal/auth"
	"github.com/immxrtalbeast/huddle/internal/repository"
	"github.com/immxrtalbeast/huddle/internal/service"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	presence := service.NewPresenceTracker()
	registry := service.NewRoomService(
		repository.NewInMemoryRoomRepository(),
		repository.NewInMemoryProfileRepository(),
		nil,
		nil,
	)
	require.NoError(t, registry.Load(context.Background()))

	polls := service.NewPollService(repository.NewInMemoryPollRepository(), nil)
	require.NoError(t, polls.Load(context.Background()))

	users := service.NewUserService(
		repository.NewInMemoryUserRepository(),
		auth.NewBcryptHasher(),
		registry,
		presence,
		nil,
	)

	return SetupRouter(
		NewUserController(users, registry, presence),
		NewRoomController(registry, t.TempDir()),
		NewPollController(polls),
		nil,
		"",
	)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/register", `{"username":"alice","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/register", `{"username":"alice","password":"other"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/login", `{"username":"alice","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", decode(t, rec)["username"])

	rec = doJSON(t, router, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/login", `{"username":"alice"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_MessagesFlow(t *testing.T) {
	router := newTestRouter(t)

	// default room is general
	rec := doJSON(t, router, http.MethodGet, "/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/messages", `{"username":"alice","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode(t, rec)["id"].(float64)
	require.NotZero(t, id)

	rec = doJSON(t, router, http.MethodGet, "/messages?room=general", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	require.Equal(t, "alice", messages[0]["username"])
	require.Equal(t, "hello", messages[0]["message"])

	rec = doJSON(t, router, http.MethodGet, "/messages?room=nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/messages", `{"username":"alice","room":"nope","message":"x"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/messages", `{"username":"alice","message":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EditMessage(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/messages", `{"username":"alice","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := int64(decode(t, rec)["id"].(float64))

	body := `{"messageId":` + strconv.FormatInt(id, 10) + `,"newMessage":"edited","room":"general","username":"alice"}`
	rec = doJSON(t, router, http.MethodPut, "/edit-message", body)
	require.Equal(t, http.StatusOK, rec.Code)

	body = `{"messageId":` + strconv.FormatInt(id, 10) + `,"newMessage":"hacked","room":"general","username":"mallory"}`
	rec = doJSON(t, router, http.MethodPut, "/edit-message", body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/edit-message", `{"messageId":42,"newMessage":"x","room":"general","username":"alice"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// the editor field is mandatory, not an optional check
	body = `{"messageId":` + strconv.FormatInt(id, 10) + `,"newMessage":"hacked","room":"general"}`
	rec = doJSON(t, router, http.MethodPut, "/edit-message", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Rooms(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rooms []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 3)
	require.Equal(t, "general", rooms[0]["id"])
	require.Equal(t, false, rooms[0]["callActive"])

	rec = doJSON(t, router, http.MethodPost, "/create-room", `{"name":"Tech Talk","type":"group","creator":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tech-talk", decode(t, rec)["roomId"])

	rec = doJSON(t, router, http.MethodPost, "/create-room", `{"name":"Tech Talk","type":"group","creator":"bob"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/room/tech-talk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)
	require.Equal(t, "Tech Talk", detail["name"])
	require.Equal(t, "group", detail["type"])

	rec = doJSON(t, router, http.MethodGet, "/room/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PrivateChat(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/create-private-chat", `{"username":"alice","targetUser":"bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	roomID := decode(t, rec)["roomId"].(string)
	require.Contains(t, roomID, "private-")

	rec = doJSON(t, router, http.MethodPost, "/create-private-chat", `{"username":"bob","targetUser":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, roomID, decode(t, rec)["roomId"])

	rec = doJSON(t, router, http.MethodPost, "/create-private-chat", `{"username":"alice","targetUser":"alice"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/user-chats?username=alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var chats []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	require.Equal(t, roomID, chats[0]["id"])

	rec = doJSON(t, router, http.MethodGet, "/user-chats", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Polls(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/create-poll",
		`{"question":"Lunch?","options":["pizza","sushi"],"room":"general","creator":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	pollID := decode(t, rec)["pollId"].(string)
	require.Contains(t, pollID, "poll-")

	rec = doJSON(t, router, http.MethodPost, "/create-poll",
		`{"question":"Lunch?","options":["pizza"],"room":"general","creator":"alice"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// index zero must survive required-field binding
	rec = doJSON(t, router, http.MethodPost, "/vote-poll",
		`{"pollId":"`+pollID+`","optionIndex":0,"username":"bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/vote-poll",
		`{"pollId":"`+pollID+`","optionIndex":5,"username":"bob"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/vote-poll",
		`{"pollId":"poll-0","optionIndex":0,"username":"bob"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/polls/general", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var polls []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &polls))
	require.Len(t, polls, 1)

	rec = doJSON(t, router, http.MethodGet, "/polls/random", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestRouter_ChangeUsername(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/register", `{"username":"alice","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/messages", `{"username":"alice","message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/change-username", `{"oldUsername":"alice","newUsername":"alicia"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/change-username", `{"oldUsername":"ghost","newUsername":"casper"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Equal(t, "alicia", messages[0]["username"])

	rec = doJSON(t, router, http.MethodPost, "/login", `{"username":"alicia","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Profile(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/user-profile/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", decode(t, rec)["displayName"])
}

func TestRouter_OnlineUsers(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/online-users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), decode(t, rec)["count"])
}
