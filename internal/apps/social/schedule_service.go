package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/validation"
	"github.com/google/uuid"
)

// UpcomingWindow is how far ahead Stats counts scheduled posts.
const UpcomingWindow = 7 * 24 * time.Hour

var approveOp = access.Op(access.ResourcePost, access.ActionApprove)

type ScheduleService struct {
	posts    PostStore
	profiles ProfileStore
	teams    access.TeamResolver
	clock    clock.Clock
	activity apps.ActivityRecorder
}

func NewScheduleService(posts PostStore, profiles ProfileStore, teams access.TeamResolver, clk clock.Clock, activity apps.ActivityRecorder) *ScheduleService {
	return &ScheduleService{posts: posts, profiles: profiles, teams: teams, clock: clk, activity: activity}
}

func (s *ScheduleService) viewer(ctx context.Context, actor access.Principal) (access.Viewer, error) {
	v, err := access.ResolveViewer(ctx, s.teams, actor)
	if err != nil {
		return access.Viewer{}, apperr.Internal(err, "resolve team")
	}
	return v, nil
}

// load fetches a post and applies the visibility predicate: not found
// first, then forbidden.
func (s *ScheduleService) load(ctx context.Context, actor access.Principal, id uuid.UUID) (*Post, access.Viewer, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, access.Viewer{}, classify(err, "get scheduled post")
	}
	v, err := s.viewer(ctx, actor)
	if err != nil {
		return nil, access.Viewer{}, err
	}
	if err := access.Authorize(v, p.Ownership()); err != nil {
		return nil, access.Viewer{}, err
	}
	return p, v, nil
}

func (s *ScheduleService) List(ctx context.Context, actor access.Principal, f PostFilter) ([]Post, error) {
	if f.From != nil && f.Until != nil && !f.From.Before(*f.Until) {
		return nil, apperr.Field("endDate", "must not be before startDate")
	}
	v, err := s.viewer(ctx, actor)
	if err != nil {
		return nil, err
	}
	out, err := s.posts.List(ctx, v, f)
	if err != nil {
		return nil, apperr.Internal(err, "list posting schedule")
	}
	return out, nil
}

// Stats covers only the posts the caller can see.
func (s *ScheduleService) Stats(ctx context.Context, actor access.Principal) (*Stats, error) {
	v, err := s.viewer(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out, err := s.posts.Stats(ctx, v, now, now.Add(UpcomingWindow))
	if err != nil {
		return nil, apperr.Internal(err, "posting schedule stats")
	}
	return out, nil
}

func (s *ScheduleService) Get(ctx context.Context, actor access.Principal, id uuid.UUID) (*PostDetail, error) {
	p, v, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: *p, AllowedActions: access.AllowedActions(v, access.ResourcePost, p.Ownership())}, nil
}

func (s *ScheduleService) requireProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := s.profiles.Get(ctx, id); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ErrUnknownProfile
		}
		return classify(err, "get social profile")
	}
	return nil
}

func (s *ScheduleService) Create(ctx context.Context, actor access.Principal, req *CreatePostRequest) (*Post, error) {
	approval := ApprovalPending
	if req.ApprovalStatus != "" {
		approval = ApprovalStatus(req.ApprovalStatus)
	}
	if approval != ApprovalPending {
		if err := access.Check(actor, approveOp); err != nil {
			return nil, err
		}
	}
	if err := s.requireProfile(ctx, req.ProfileID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &Post{
		ID:                uuid.New(),
		ProfileID:         req.ProfileID,
		PostType:          PostText,
		Caption:           req.Caption,
		MediaURL:          req.MediaURL,
		ScheduledDateTime: req.ScheduledDateTime.UTC(),
		Status:            StatusDraft,
		ApprovalStatus:    approval,
		AssignedTo:        req.AssignedTo,
		CreatedBy:         actor.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.PostType != "" {
		p.PostType = PostType(req.PostType)
	}
	if req.Status != "" {
		p.Status = PostStatus(req.Status)
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return nil, classify(err, "create scheduled post")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "post_scheduled",
		EntityType:   "posting_schedule",
		EntityID:     &p.ID,
		TargetUserID: p.AssignedTo,
		Description:  fmt.Sprintf("%s scheduled a %s post", actor.Name, p.PostType),
		Metadata:     map[string]any{"scheduledDateTime": p.ScheduledDateTime, "status": p.Status},
	})
	return p, nil
}

// apply copies req onto p. It performs every check that can fail, so a
// caller that has applied all rows can write them without further errors.
func (s *ScheduleService) apply(ctx context.Context, actor access.Principal, p *Post, req *UpdatePostRequest) error {
	if req.ApprovalStatus != nil && ApprovalStatus(*req.ApprovalStatus) != p.ApprovalStatus {
		if err := access.Check(actor, approveOp); err != nil {
			return err
		}
		p.ApprovalStatus = ApprovalStatus(*req.ApprovalStatus)
	}
	if req.ProfileID != nil && *req.ProfileID != p.ProfileID {
		if err := s.requireProfile(ctx, *req.ProfileID); err != nil {
			return err
		}
		p.ProfileID = *req.ProfileID
	}
	if req.PostType != nil {
		p.PostType = PostType(*req.PostType)
	}
	if req.Caption != nil {
		p.Caption = *req.Caption
	}
	if req.MediaURL.Set {
		p.MediaURL = req.MediaURL.Ptr()
		if p.MediaURL != nil {
			if err := validation.Var("mediaUrl", *p.MediaURL, "url"); err != nil {
				return err
			}
		}
	}
	if req.ScheduledDateTime != nil {
		p.ScheduledDateTime = req.ScheduledDateTime.UTC()
	}
	if req.Status != nil {
		p.Status = PostStatus(*req.Status)
	}
	if req.AssignedTo.Set {
		p.AssignedTo = req.AssignedTo.Ptr()
	}
	if req.PublishResult.Set {
		p.PublishResult = req.PublishResult.Ptr()
	}
	return nil
}

func (s *ScheduleService) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req *UpdatePostRequest) (*Post, error) {
	p, _, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	before := p.ApprovalStatus
	if err := s.apply(ctx, actor, p, req); err != nil {
		return nil, err
	}
	p.UpdatedAt = clock.NextStamp(s.clock.Now(), p.UpdatedAt)

	if err := s.posts.Save(ctx, p); err != nil {
		return nil, classify(err, "update scheduled post")
	}
	entry := apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "post_updated",
		EntityType:   "posting_schedule",
		EntityID:     &p.ID,
		TargetUserID: p.AssignedTo,
		Description:  fmt.Sprintf("%s updated a scheduled post", actor.Name),
	}
	if p.ApprovalStatus != before {
		entry.Type = "post_" + string(p.ApprovalStatus)
		entry.Description = fmt.Sprintf("%s marked a scheduled post %s", actor.Name, p.ApprovalStatus)
		entry.Metadata = map[string]any{"from": before, "to": p.ApprovalStatus}
	}
	s.activity.Record(ctx, entry)
	return p, nil
}

func (s *ScheduleService) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	p, _, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return classify(err, "delete scheduled post")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "post_deleted",
		EntityType:   "posting_schedule",
		TargetUserID: p.AssignedTo,
		Description:  fmt.Sprintf("%s deleted a scheduled post", actor.Name),
	})
	return nil
}

// lockAll locks every id and checks the caller may touch each one. Any
// missing id fails the whole batch with not found, then any forbidden one.
func (s *ScheduleService) lockAll(ctx context.Context, tx PostStore, v access.Viewer, ids []uuid.UUID) ([]Post, error) {
	rows, err := tx.Lock(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(ids) {
		return nil, ErrPostNotFound
	}
	for i := range rows {
		if err := access.Authorize(v, rows[i].Ownership()); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (s *ScheduleService) BulkUpdate(ctx context.Context, actor access.Principal, req *BulkUpdateRequest) (*BulkResult, error) {
	ids := uniqueIDs(req.IDs)
	v, err := s.viewer(ctx, actor)
	if err != nil {
		return nil, err
	}

	err = s.posts.Atomic(ctx, func(tx PostStore) error {
		rows, err := s.lockAll(ctx, tx, v, ids)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		for i := range rows {
			if err := s.apply(ctx, actor, &rows[i], &req.Updates); err != nil {
				return err
			}
			rows[i].UpdatedAt = clock.NextStamp(now, rows[i].UpdatedAt)
		}
		for i := range rows {
			if err := tx.Save(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "bulk update posting schedule")
	}

	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:      actor.UserID,
		Type:        "posts_bulk_updated",
		EntityType:  "posting_schedule",
		Description: fmt.Sprintf("%s updated %d scheduled posts", actor.Name, len(ids)),
		Metadata:    map[string]any{"ids": ids},
	})
	return &BulkResult{Count: len(ids)}, nil
}

func (s *ScheduleService) BulkDelete(ctx context.Context, actor access.Principal, req *BulkDeleteRequest) (*BulkResult, error) {
	ids := uniqueIDs(req.IDs)
	v, err := s.viewer(ctx, actor)
	if err != nil {
		return nil, err
	}

	err = s.posts.Atomic(ctx, func(tx PostStore) error {
		if _, err := s.lockAll(ctx, tx, v, ids); err != nil {
			return err
		}
		return tx.DeleteMany(ctx, ids)
	})
	if err != nil {
		return nil, classify(err, "bulk delete posting schedule")
	}

	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:      actor.UserID,
		Type:        "posts_bulk_deleted",
		EntityType:  "posting_schedule",
		Description: fmt.Sprintf("%s deleted %d scheduled posts", actor.Name, len(ids)),
		Metadata:    map[string]any{"ids": ids},
	})
	return &BulkResult{Count: len(ids)}, nil
}

// Clone copies a visible post into a new draft owned by the caller. cloneOf
// always names the original post, never an intermediate clone.
func (s *ScheduleService) Clone(ctx context.Context, actor access.Principal, id uuid.UUID) (*Post, error) {
	origin, _, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	root := origin.ID
	if origin.CloneOf != nil {
		root = *origin.CloneOf
	}

	now := s.clock.Now()
	p := &Post{
		ID:                uuid.New(),
		ProfileID:         origin.ProfileID,
		PostType:          origin.PostType,
		Caption:           origin.Caption,
		MediaURL:          origin.MediaURL,
		ScheduledDateTime: origin.ScheduledDateTime,
		Status:            StatusDraft,
		ApprovalStatus:    ApprovalPending,
		AssignedTo:        origin.AssignedTo,
		CreatedBy:         actor.UserID,
		CloneOf:           &root,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, classify(err, "clone scheduled post")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:      actor.UserID,
		Type:        "post_cloned",
		EntityType:  "posting_schedule",
		EntityID:    &p.ID,
		Description: fmt.Sprintf("%s cloned a scheduled post", actor.Name),
		Metadata:    map[string]any{"cloneOf": root},
	})
	return p, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
