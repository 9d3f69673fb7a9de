package reservationRoutes

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"cityguide/database"
	"cityguide/models"
	"cityguide/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reservationJSON struct {
	ID        uint   `json:"id"`
	Reference string `json:"reference"`
	UserID    uint   `json:"user_id"`
	PlaceID   uint   `json:"place_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Guests    int    `json:"guests"`
	Status    string `json:"status"`
	Place     *struct {
		Name string `json:"name"`
	} `json:"place"`
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestCreateReservation(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupReservationRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	place := models.Place{Name: "Le Procope"}
	require.NoError(t, db.Create(&place).Error)

	status, env := testutil.Do(t, app, http.MethodPost, "/reservations", map[string]interface{}{
		"place_id":   place.ID,
		"date":       futureDate(),
		"start_time": "19:30",
		"end_time":   "21:30",
	}, testutil.Token(t, alice))
	require.Equal(t, http.StatusCreated, status, env.Message)

	var r reservationJSON
	env.DecodeData(t, &r)
	assert.Len(t, r.Reference, 36)
	assert.Equal(t, alice.ID, r.UserID)
	assert.Equal(t, models.ReservationPending, r.Status)
	assert.Equal(t, 1, r.Guests)
	assert.Equal(t, "19:30:00", r.StartTime)
	require.NotNil(t, r.Place)
	assert.Equal(t, "Le Procope", r.Place.Name)
}

func TestCreateReservation_Validation(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupReservationRoutes)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	status, env := testutil.Do(t, app, http.MethodPost, "/reservations", map[string]interface{}{
		"place_id":   1,
		"date":       yesterday,
		"start_time": "21:00",
		"end_time":   "20:00",
		"guests":     0,
	}, "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("date"))
	assert.True(t, env.HasError("end_time"))
	assert.True(t, env.HasError("guests"))

	status, env = testutil.Do(t, app, http.MethodPost, "/reservations", map[string]interface{}{
		"place_id":   1,
		"date":       futureDate(),
		"start_time": "7pm",
		"end_time":   "25:00",
	}, "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("start_time"))
	assert.True(t, env.HasError("end_time"))
}

func TestCreateReservation_UnknownPlace(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupReservationRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	status, _ := testutil.Do(t, app, http.MethodPost, "/reservations", map[string]interface{}{
		"place_id":   9999,
		"date":       futureDate(),
		"start_time": "19:30",
		"end_time":   "21:30",
	}, testutil.Token(t, alice))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReservationAccess(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupReservationRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	place := models.Place{Name: "Le Procope"}
	require.NoError(t, db.Create(&place).Error)

	status, env := testutil.Do(t, app, http.MethodPost, "/reservations", map[string]interface{}{
		"place_id":   place.ID,
		"date":       futureDate(),
		"start_time": "19:30",
		"end_time":   "21:30",
		"guests":     4,
	}, testutil.Token(t, alice))
	require.Equal(t, http.StatusCreated, status, env.Message)
	var r reservationJSON
	env.DecodeData(t, &r)
	path := "/reservations/" + strconv.Itoa(int(r.ID))

	status, _ = testutil.Do(t, app, http.MethodGet, path, nil, testutil.Token(t, bob))
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = testutil.Do(t, app, http.MethodGet, path, nil, testutil.Token(t, admin))
	assert.Equal(t, http.StatusOK, status)

	// the owner may cancel but not confirm
	status, _ = testutil.Do(t, app, http.MethodPatch, path+"/status", map[string]interface{}{"status": "confirmed"}, testutil.Token(t, alice))
	assert.Equal(t, http.StatusForbidden, status)

	status, env = testutil.Do(t, app, http.MethodPatch, path+"/status", map[string]interface{}{"status": "maybe"}, testutil.Token(t, admin))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("status"))

	status, _ = testutil.Do(t, app, http.MethodPatch, path+"/status", map[string]interface{}{"status": "confirmed"}, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, status)

	status, env = testutil.Do(t, app, http.MethodPatch, path+"/status", map[string]interface{}{"status": "cancelled"}, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status, env.Message)

	var stored models.Reservation
	require.NoError(t, database.Database.Db.First(&stored, r.ID).Error)
	assert.Equal(t, models.ReservationCancelled, stored.Status)

	status, _ = testutil.Do(t, app, http.MethodDelete, path, nil, testutil.Token(t, bob))
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = testutil.Do(t, app, http.MethodDelete, path, nil, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status)
	status, _ = testutil.Do(t, app, http.MethodGet, path, nil, testutil.Token(t, alice))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListReservations(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupReservationRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	place := models.Place{Name: "Le Procope"}
	require.NoError(t, db.Create(&place).Error)

	for _, user := range []*models.User{alice, alice, bob} {
		status, env := testutil.Do(t, app, http.MethodPost, "/reservations", map[string]interface{}{
			"place_id":   place.ID,
			"date":       futureDate(),
			"start_time": "12:00",
			"end_time":   "13:00",
		}, testutil.Token(t, user))
		require.Equal(t, http.StatusCreated, status, env.Message)
	}

	type listing struct {
		Reservations []reservationJSON `json:"reservations"`
		Pagination   struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}

	status, env := testutil.Do(t, app, http.MethodGet, "/reservations/me", nil, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status)
	var mine listing
	env.DecodeData(t, &mine)
	assert.Equal(t, int64(2), mine.Pagination.Total)
	for _, r := range mine.Reservations {
		assert.Equal(t, alice.ID, r.UserID)
	}

	status, _ = testutil.Do(t, app, http.MethodGet, "/reservations", nil, testutil.Token(t, alice))
	assert.Equal(t, http.StatusForbidden, status)

	status, env = testutil.Do(t, app, http.MethodGet, "/reservations?status=pending&place_id="+strconv.Itoa(int(place.ID)), nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, status)
	var all listing
	env.DecodeData(t, &all)
	assert.Equal(t, int64(3), all.Pagination.Total)

	status, env = testutil.Do(t, app, http.MethodGet, "/reservations?status=confirmed", nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, status)
	var confirmed listing
	env.DecodeData(t, &confirmed)
	assert.Zero(t, confirmed.Pagination.Total)
}
