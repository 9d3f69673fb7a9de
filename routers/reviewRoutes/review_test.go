package reviewRoutes

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"cityguide/models"
	"cityguide/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupReviewRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	token := testutil.Token(t, alice)
	place := models.Place{Name: "Louvre"}
	require.NoError(t, db.Create(&place).Error)

	body := map[string]interface{}{"place_id": place.ID, "rating": 4, "comment": "Crowded but worth it"}

	status, _ := testutil.Do(t, app, http.MethodPost, "/reviews", body, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := testutil.Do(t, app, http.MethodPost, "/reviews", body, token)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var review models.ReviewView
	env.DecodeData(t, &review)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, alice.ID, review.UserID)
	assert.Equal(t, "Alice", review.UserName)

	status, env = testutil.Do(t, app, http.MethodPost, "/reviews", body, token)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "You have already reviewed this place!", env.Message)

	body["place_id"] = 9999
	status, _ = testutil.Do(t, app, http.MethodPost, "/reviews", body, token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateReview_ConcurrentDuplicateIsConflict(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupReviewRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	place := models.Place{Name: "Louvre"}
	require.NoError(t, db.Create(&place).Error)

	now := time.Now().UTC()
	testutil.ExecBeforeWrite(t, db, "reviews",
		"INSERT INTO reviews (user_id, place_id, rating, comment, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		alice.ID, place.ID, 5, "first", now, now,
	)

	status, env := testutil.Do(t, app, http.MethodPost, "/reviews", map[string]interface{}{
		"place_id": place.ID,
		"rating":   4,
	}, testutil.Token(t, alice))
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)
	assert.Equal(t, "You have already reviewed this place!", env.Message)
}

func TestCreateReview_RatingBounds(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupReviewRoutes)

	for _, rating := range []interface{}{-1, 6, "five", 4.5} {
		status, env := testutil.Do(t, app, http.MethodPost, "/reviews", map[string]interface{}{
			"place_id": 1,
			"rating":   rating,
		}, "")
		assert.Equal(t, http.StatusBadRequest, status, "rating %v", rating)
		assert.True(t, env.HasError("rating"), "rating %v", rating)
	}
}

func TestUpdateAndDeleteReview_Ownership(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupReviewRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	place := models.Place{Name: "Louvre"}
	require.NoError(t, db.Create(&place).Error)
	review := models.Review{UserID: alice.ID, PlaceID: place.ID, Rating: 3}
	require.NoError(t, db.Create(&review).Error)
	path := "/reviews/" + strconv.Itoa(int(review.ID))

	status, _ := testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{"rating": 1}, testutil.Token(t, bob))
	assert.Equal(t, http.StatusForbidden, status)

	status, env := testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{}, testutil.Token(t, alice))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("body"))

	status, env = testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{"rating": 5}, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status, env.Message)
	var updated models.ReviewView
	env.DecodeData(t, &updated)
	assert.Equal(t, 5, updated.Rating)

	status, _ = testutil.Do(t, app, http.MethodDelete, path, nil, testutil.Token(t, bob))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = testutil.Do(t, app, http.MethodDelete, path, nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, status)

	status, _ = testutil.Do(t, app, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}
