package models

type Review struct {
	Base
	UserID  uint   `gorm:"not null;uniqueIndex:idx_review_user_place" json:"user_id"`
	PlaceID uint   `gorm:"not null;uniqueIndex:idx_review_user_place;index" json:"place_id"`
	Rating  int    `gorm:"not null;check:rating >= 0 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Place *Place `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"-"`
}

// ReviewView is a review with its author's display name
type ReviewView struct {
	Review
	UserName string `json:"user_name"`
}

// View requires User to be preloaded for the author name
func (r Review) View() ReviewView {
	v := ReviewView{Review: r}
	if r.User != nil {
		v.UserName = r.User.Name
	}
	return v
}

func ReviewViews(reviews []Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, r.View())
	}
	return views
}
