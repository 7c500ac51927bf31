package dto

import (
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	DOB     string `json:"dob"`
	Address string `json:"address"`
}

var dobLayouts = []string{"2006-01-02", time.RFC3339}

// ToDomain converts the request; an empty dob keeps the stored value.
func (r *UpdateProfileRequest) ToDomain() (domain.ProfileUpdate, error) {
	upd := domain.ProfileUpdate{Name: r.Name, Phone: r.Phone, Address: r.Address}
	if r.DOB == "" {
		return upd, nil
	}
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, r.DOB); err == nil {
			t = t.UTC()
			upd.DOB = &t
			return upd, nil
		}
	}
	return domain.ProfileUpdate{}, domain.ErrInvalidField("dob", "Invalid date of birth")
}
