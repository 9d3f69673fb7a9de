package eventRoutes

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"cityguide/models"
	"cityguide/testutil"
	eventValidator "cityguide/validators/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEvent(t *testing.T, db *gorm.DB, placeID uint, title string, start time.Time) models.Event {
	t.Helper()
	event := models.Event{Title: title, PlaceID: placeID, StartAt: start, EndAt: start.Add(2 * time.Hour)}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func TestCreateEvent(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupEventRoutes)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	token := testutil.Token(t, admin)
	place := models.Place{Name: "Olympia"}
	require.NoError(t, db.Create(&place).Error)

	body := map[string]interface{}{
		"title":    "Concert",
		"place_id": place.ID,
		"start_at": "2030-06-01T20:00:00Z",
		"end_at":   "2030-06-01T23:00:00Z",
		"price":    45.5,
	}
	status, env := testutil.Do(t, app, http.MethodPost, "/events", body, token)
	require.Equal(t, http.StatusCreated, status, env.Message)

	var event models.Event
	env.DecodeData(t, &event)
	assert.Equal(t, "Concert", event.Title)
	assert.Equal(t, place.ID, event.PlaceID)

	status, env = testutil.Do(t, app, http.MethodGet, "/events/"+strconv.Itoa(int(event.ID)), nil, "")
	require.Equal(t, http.StatusOK, status)
	var fetched models.Event
	env.DecodeData(t, &fetched)
	require.NotNil(t, fetched.Place)
	assert.Equal(t, "Olympia", fetched.Place.Name)

	body["place_id"] = 9999
	status, _ = testutil.Do(t, app, http.MethodPost, "/events", body, token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateEvent_EndMustFollowStart(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupEventRoutes)

	status, env := testutil.Do(t, app, http.MethodPost, "/events", map[string]interface{}{
		"title":    "Concert",
		"place_id": 1,
		"start_at": "2030-06-01T20:00:00Z",
		"end_at":   "2030-06-01T19:00:00Z",
	}, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.True(t, env.HasError("end_at"))
	for _, fe := range env.Errors {
		if fe.Field == "end_at" {
			assert.Equal(t, eventValidator.EndAfterStartMessage, fe.Message)
		}
	}

	status, env = testutil.Do(t, app, http.MethodPost, "/events", map[string]interface{}{
		"title":    "Concert",
		"place_id": 1,
		"start_at": "next friday",
		"end_at":   "2030-06-01T19:00:00Z",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("start_at"))
}

func TestUpdateEvent_RechecksMergedRange(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupEventRoutes)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	token := testutil.Token(t, admin)
	place := models.Place{Name: "Olympia"}
	require.NoError(t, db.Create(&place).Error)
	event := seedEvent(t, db, place.ID, "Concert", time.Date(2030, 6, 1, 20, 0, 0, 0, time.UTC))
	path := "/events/" + strconv.Itoa(int(event.ID))

	status, env := testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{
		"start_at": "2030-06-02T20:00:00Z",
	}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("end_at"))

	status, env = testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{
		"title": "Late concert",
	}, token)
	require.Equal(t, http.StatusOK, status, env.Message)
	var updated models.Event
	env.DecodeData(t, &updated)
	assert.Equal(t, "Late concert", updated.Title)

	status, _ = testutil.Do(t, app, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, status)
	status, _ = testutil.Do(t, app, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListEvents_Filters(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupEventRoutes)
	olympia := models.Place{Name: "Olympia"}
	bercy := models.Place{Name: "Bercy"}
	require.NoError(t, db.Create(&olympia).Error)
	require.NoError(t, db.Create(&bercy).Error)

	seedEvent(t, db, olympia.ID, "Past", time.Now().UTC().Add(-48*time.Hour))
	seedEvent(t, db, olympia.ID, "Morning", time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC))
	seedEvent(t, db, bercy.ID, "Evening", time.Date(2030, 6, 1, 21, 0, 0, 0, time.UTC))
	seedEvent(t, db, bercy.ID, "Next day", time.Date(2030, 6, 2, 9, 0, 0, 0, time.UTC))

	type listing struct {
		Events     []models.Event `json:"events"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}

	status, env := testutil.Do(t, app, http.MethodGet, "/events?date=2030-06-01", nil, "")
	require.Equal(t, http.StatusOK, status, env.Message)
	var byDate listing
	env.DecodeData(t, &byDate)
	require.Len(t, byDate.Events, 2)
	assert.Equal(t, "Morning", byDate.Events[0].Title)
	assert.Equal(t, "Evening", byDate.Events[1].Title)

	status, env = testutil.Do(t, app, http.MethodGet, "/events?upcoming=true", nil, "")
	require.Equal(t, http.StatusOK, status)
	var upcoming listing
	env.DecodeData(t, &upcoming)
	assert.Equal(t, int64(3), upcoming.Pagination.Total)

	status, env = testutil.Do(t, app, http.MethodGet, "/events?place_id="+strconv.Itoa(int(bercy.ID)), nil, "")
	require.Equal(t, http.StatusOK, status)
	var byPlace listing
	env.DecodeData(t, &byPlace)
	assert.Equal(t, int64(2), byPlace.Pagination.Total)

	status, env = testutil.Do(t, app, http.MethodGet, "/events?date=01/06/2030", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("date"))
}
