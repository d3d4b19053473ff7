package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/validation"
	"github.com/google/uuid"
)

type ProfileService struct {
	profiles ProfileStore
	teams    access.TeamResolver
	clock    clock.Clock
	activity apps.ActivityRecorder
}

func NewProfileService(profiles ProfileStore, teams access.TeamResolver, clk clock.Clock, activity apps.ActivityRecorder) *ProfileService {
	return &ProfileService{profiles: profiles, teams: teams, clock: clk, activity: activity}
}

func (s *ProfileService) List(ctx context.Context, f ProfileFilter) ([]Profile, error) {
	out, err := s.profiles.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err, "list social profiles")
	}
	return out, nil
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get social profile")
	}
	return p, nil
}

// authorize applies the ownership predicate with the profile owner in both
// positions: the owner, the owner's manager and admins pass.
func (s *ProfileService) authorize(ctx context.Context, actor access.Principal, owner uuid.UUID) error {
	v, err := access.ResolveViewer(ctx, s.teams, actor)
	if err != nil {
		return apperr.Internal(err, "resolve team")
	}
	return access.Authorize(v, access.OwnedBy(owner))
}

func (s *ProfileService) Create(ctx context.Context, actor access.Principal, req *CreateProfileRequest) (*Profile, error) {
	owner := actor.UserID
	if req.UserID != nil {
		owner = *req.UserID
	}
	if err := s.authorize(ctx, actor, owner); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &Profile{
		ID:                  uuid.New(),
		UserID:              owner,
		Platform:            Platform(req.Platform),
		Username:            strings.TrimSpace(req.Username),
		ProfileURL:          req.ProfileURL,
		AccountType:         AccountPersonal,
		FollowersCount:      req.FollowersCount,
		Bio:                 req.Bio,
		ContentNiche:        req.ContentNiche,
		ChannelName:         req.ChannelName,
		SubscribersCount:    req.SubscribersCount,
		ChannelURL:          req.ChannelURL,
		SubredditModeration: req.SubredditModeration,
		ConnectedDate:       now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if req.AccountType != "" {
		p.AccountType = AccountType(req.AccountType)
	}
	if err := checkPlatformFields(p); err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, classify(err, "create social profile")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "profile_connected",
		EntityType:   "social_profile",
		EntityID:     &p.ID,
		TargetUserID: &p.UserID,
		Description:  fmt.Sprintf("%s connected %s profile %s", actor.Name, p.Platform, p.Username),
		Metadata:     map[string]any{"platform": p.Platform},
	})
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get social profile")
	}
	if err := s.authorize(ctx, actor, p.UserID); err != nil {
		return nil, err
	}

	if req.Platform != nil {
		p.Platform = Platform(*req.Platform)
	}
	if req.Username != nil {
		p.Username = strings.TrimSpace(*req.Username)
		if p.Username == "" {
			return nil, apperr.Field("username", "is required")
		}
	}
	if req.ProfileURL != nil {
		p.ProfileURL = *req.ProfileURL
	}
	if req.AccountType != nil {
		p.AccountType = AccountType(*req.AccountType)
	}
	if req.FollowersCount.Set {
		p.FollowersCount = req.FollowersCount.Ptr()
	}
	if req.Bio.Set {
		p.Bio = req.Bio.Ptr()
	}
	if req.ContentNiche.Set {
		p.ContentNiche = req.ContentNiche.Ptr()
	}
	if req.ChannelName.Set {
		p.ChannelName = req.ChannelName.Ptr()
	}
	if req.SubscribersCount.Set {
		p.SubscribersCount = req.SubscribersCount.Ptr()
	}
	if req.ChannelURL.Set {
		p.ChannelURL = req.ChannelURL.Ptr()
		if p.ChannelURL != nil {
			if err := validation.Var("channelUrl", *p.ChannelURL, "url"); err != nil {
				return nil, err
			}
		}
	}
	if req.SubredditModeration.Set {
		p.SubredditModeration = req.SubredditModeration.Ptr()
	}
	if err := checkPlatformFields(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = clock.NextStamp(s.clock.Now(), p.UpdatedAt)

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, classify(err, "update social profile")
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return classify(err, "get social profile")
	}
	if err := s.authorize(ctx, actor, p.UserID); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, id); err != nil {
		return classify(err, "delete social profile")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "profile_disconnected",
		EntityType:   "social_profile",
		TargetUserID: &p.UserID,
		Description:  fmt.Sprintf("%s disconnected %s profile %s", actor.Name, p.Platform, p.Username),
		Metadata:     map[string]any{"platform": p.Platform},
	})
	return nil
}

// checkPlatformFields rejects fields that belong to another platform.
func checkPlatformFields(p *Profile) error {
	fields := map[string]string{}
	if p.Platform != PlatformYouTube {
		if p.ChannelName != nil {
			fields["channelName"] = "is only allowed for youtube profiles"
		}
		if p.SubscribersCount != nil {
			fields["subscribersCount"] = "is only allowed for youtube profiles"
		}
		if p.ChannelURL != nil {
			fields["channelUrl"] = "is only allowed for youtube profiles"
		}
	}
	if p.Platform == PlatformYouTube && p.FollowersCount != nil {
		fields["followersCount"] = "is not used for youtube profiles; use subscribersCount"
	}
	if p.Platform != PlatformReddit && p.SubredditModeration != nil {
		fields["subredditModeration"] = "is only allowed for reddit profiles"
	}
	if len(fields) > 0 {
		return apperr.Validation("Invalid fields for platform "+string(p.Platform), fields)
	}
	return nil
}

func classify(err error, op string) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err, op)
}
