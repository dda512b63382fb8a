package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseta2mqtt/zigbee"
)

func TestHealth(t *testing.T) {
	server := NewServer(zigbee.NewStateManager(time.Minute))

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestGroups(t *testing.T) {
	states := zigbee.NewStateManager(time.Minute)

	brightness := zigbee.Brightness(128)
	state := zigbee.On
	scene := zigbee.Scene{ID: 1, Name: "movie"}
	states.Update("living_room", zigbee.GroupUpdate{Brightness: &brightness, State: &state, Scene: &scene})

	off := zigbee.Off
	states.Update("bedroom", zigbee.GroupUpdate{State: &off})

	rec := httptest.NewRecorder()
	NewServer(states).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var statuses map[string]groupStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	require.Len(t, statuses, 2)

	living := statuses["living_room"]
	require.NotNil(t, living.Brightness)
	assert.Equal(t, 128, *living.Brightness)
	assert.Equal(t, "ON", living.State)
	require.NotNil(t, living.Scene)
	assert.Equal(t, "movie", *living.Scene)

	bedroom := statuses["bedroom"]
	assert.Nil(t, bedroom.Brightness)
	assert.Equal(t, "OFF", bedroom.State)
	assert.Nil(t, bedroom.Scene)
}

func TestGroupsRejectsOtherMethods(t *testing.T) {
	server := NewServer(zigbee.NewStateManager(time.Minute))

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
