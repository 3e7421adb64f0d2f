package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/contract-payments/internal/model"
)

type ProfileService struct {
	profiles ProfileRepository
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Resolve finds the acting profile from the raw profile_id header value.
func (s *ProfileService) Resolve(ctx context.Context, rawID string) (*model.Profile, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return nil, ErrMissingProfileID
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrUnknownProfile
	}

	profile, err := s.profiles.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownProfile
		}
		return nil, err
	}
	return profile, nil
}
