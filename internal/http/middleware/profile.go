package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/contract-payments/internal/http/response"
	"github.com/nurpe/contract-payments/internal/model"
)

const (
	ProfileHeader = "profile_id"
	profileKey    = "profile"
)

type ProfileResolver interface {
	Resolve(ctx context.Context, rawID string) (*model.Profile, error)
}

// Profile resolves the acting profile from the profile_id header and stores
// it on the context for handlers.
func Profile(resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := resolver.Resolve(c.Request.Context(), c.GetHeader(ProfileHeader))
		if err != nil {
			status := response.StatusFor(err)
			if status == http.StatusInternalServerError {
				_ = c.Error(err)
				response.Error(c, status, "internal error")
			} else {
				response.Error(c, status, err.Error())
			}
			c.Abort()
			return
		}
		c.Set(profileKey, *profile)
		c.Next()
	}
}

func MustProfile(c *gin.Context) (model.Profile, bool) {
	value, ok := c.Get(profileKey)
	if !ok {
		return model.Profile{}, false
	}
	profile, ok := value.(model.Profile)
	return profile, ok
}
