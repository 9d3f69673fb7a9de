package placeController

import (
	"context"
	"errors"
	"sort"
	"time"

	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	placeValidator "cityguide/validators/place"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CachePrefix covers every cached place response
const CachePrefix = "/places"

func ListPlaces(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPlaceList").(*placeValidator.ListPlacesRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	filter := func(tx *gorm.DB) *gorm.DB {
		if reqData.Category != "" {
			tx = tx.Where("category = ?", reqData.Category)
		}
		if reqData.Search != "" {
			like := "%" + reqData.Search + "%"
			tx = tx.Where("name LIKE ? OR description LIKE ? OR location LIKE ?", like, like, like)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Place{}).Scopes(filter).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var places []models.Place
	if err := db.Scopes(filter).
		Order("name ASC").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Find(&places).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Places list fetched successfully",
		utils.Paginated("places", places, total, reqData.Page))
}

// Nearby prefilters on a bounding box in SQL and keeps the places whose haversine
// distance is within the radius, nearest first
func Nearby(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedNearby").(*placeValidator.NearbyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	box := utils.BoundingBoxAround(reqData.Lat, reqData.Lng, reqData.RadiusKm)

	var candidates []models.Place
	if err := database.Database.Db.
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Find(&candidates).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	nearby := make([]models.PlaceDistance, 0, len(candidates))
	for _, p := range candidates {
		d := utils.HaversineKm(reqData.Lat, reqData.Lng, *p.Latitude, *p.Longitude)
		if d <= reqData.RadiusKm {
			nearby = append(nearby, models.PlaceDistance{Place: p, DistanceKm: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	total := int64(len(nearby))
	start := reqData.Offset()
	if start > len(nearby) {
		start = len(nearby)
	}
	end := start + reqData.Limit
	if end > len(nearby) {
		end = len(nearby)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Nearby places fetched successfully",
		utils.Paginated("places", nearby[start:end], total, reqData.Page))
}

func GetPlace(c *fiber.Ctx) error {
	details, err := LoadDetails(database.Database.Db, commonValidator.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Place fetched successfully", details)
}

// LoadDetails returns a place with its average rating and review count
func LoadDetails(db *gorm.DB, id uint) (*models.PlaceDetails, error) {
	var place models.Place
	if err := db.First(&place, id).Error; err != nil {
		return nil, notFound(err)
	}

	var agg struct {
		AverageRating float64
		ReviewCount   int64
	}
	if err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Where("place_id = ?", id).
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	return &models.PlaceDetails{
		Place:         place,
		AverageRating: agg.AverageRating,
		ReviewCount:   agg.ReviewCount,
	}, nil
}

func PlaceReviews(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")
	page := commonValidator.PageOf(c)
	db := database.Database.Db

	if err := EnsureExists(db, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var total int64
	if err := db.Model(&models.Review{}).Where("place_id = ?", id).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var reviews []models.Review
	if err := db.Preload("User").
		Where("place_id = ?", id).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&reviews).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews list fetched successfully",
		utils.Paginated("reviews", models.ReviewViews(reviews), total, page))
}

func PlaceEvents(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")
	page := commonValidator.PageOf(c)
	db := database.Database.Db

	if err := EnsureExists(db, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var total int64
	if err := db.Model(&models.Event{}).Where("place_id = ?", id).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var events []models.Event
	if err := db.Where("place_id = ?", id).
		Order("start_at ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&events).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Events list fetched successfully",
		utils.Paginated("events", events, total, page))
}

func PlacePromotions(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")
	page := commonValidator.PageOf(c)
	db := database.Database.Db

	if err := EnsureExists(db, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var total int64
	if err := db.Model(&models.Promotion{}).Where("place_id = ?", id).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var promotions []models.Promotion
	if err := db.Where("place_id = ?", id).
		Order("valid_from DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&promotions).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotions list fetched successfully",
		utils.Paginated("promotions", promotions, total, page))
}

func CreatePlace(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPlace").(*placeValidator.PlaceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	place := models.Place{}
	apply(&place, reqData)

	if place.Latitude == nil && place.Location != "" {
		geocode(c.UserContext(), &place)
	}

	if err := database.Database.Db.Create(&place).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	middleware.InvalidateCache(c.UserContext(), CachePrefix)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Place created successfully", place)
}

func UpdatePlace(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")
	reqData, ok := c.Locals("validatedPlace").(*placeValidator.PlaceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var place models.Place
	if err := db.First(&place, id).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	previousLocation := place.Location
	apply(&place, reqData)

	if reqData.Latitude == nil && place.Location != "" && place.Location != previousLocation {
		geocode(c.UserContext(), &place)
	}

	if err := db.Save(&place).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	middleware.InvalidateCache(c.UserContext(), CachePrefix)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Place updated successfully", place)
}

func DeletePlace(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")

	result := database.Database.Db.Delete(&models.Place{}, id)
	if result.Error != nil {
		return middleware.ErrorResponse(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Place not found!", nil)
	}

	middleware.InvalidateCache(c.UserContext(), CachePrefix)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Place deleted successfully", nil)
}

// EnsureExists returns a NOT_FOUND AppError when the place is missing
func EnsureExists(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&models.Place{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NewNotFoundError("Place not found!")
	}
	return nil
}

func apply(place *models.Place, reqData *placeValidator.PlaceRequest) {
	if reqData.Name != nil {
		place.Name = *reqData.Name
	}
	if reqData.Description != nil {
		place.Description = *reqData.Description
	}
	if reqData.Location != nil {
		place.Location = *reqData.Location
	}
	if reqData.Latitude != nil && reqData.Longitude != nil {
		place.Latitude = reqData.Latitude
		place.Longitude = reqData.Longitude
	}
	if reqData.Category != nil {
		place.Category = *reqData.Category
	}
	if reqData.OpeningHours != nil {
		place.OpeningHours = datatypes.JSON(reqData.OpeningHours)
	}
}

// geocode fills the coordinates from the address; failures leave them unset
func geocode(ctx context.Context, place *models.Place) {
	if utils.Geo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log := utils.Component("geocoder")
	lat, lng, err := utils.Geo.Geocode(ctx, place.Location)
	if err != nil {
		if errors.Is(err, utils.ErrAddressNotFound) {
			log.Info().Str("location", place.Location).Msg("address not found")
		} else {
			log.Warn().Err(err).Str("location", place.Location).Msg("geocoding failed")
		}
		return
	}
	place.Latitude = &lat
	place.Longitude = &lng
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError("Place not found!")
	}
	return err
}
