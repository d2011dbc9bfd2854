package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/cinelog/cinelog/database"
)

var (
	// ErrEmptyTitle is returned when a content request has no title.
	ErrEmptyTitle = errors.New("request title must not be empty")
	// ErrInvalidStatus is returned on an unknown request status value.
	ErrInvalidStatus = errors.New("invalid request status")
)

var requestStatuses = map[database.RequestStatus]struct{}{
	database.RequestStatusPending:  {},
	database.RequestStatusApproved: {},
	database.RequestStatusRejected: {},
	database.RequestStatusAdded:    {},
}

// CreateRequest files a new content request. New requests always start out
// pending, whatever the caller supplied.
func (s *Service) CreateRequest(ctx context.Context, userID uint, title string, mediaType database.MediaType, year *int, description string) (*database.ContentRequest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	request := &database.ContentRequest{
		UserID:      userID,
		Title:       title,
		MediaType:   mediaType,
		Year:        year,
		Description: description,
	}
	if err := s.db.CreateContentRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// MyRequests returns a page of the user's content requests, newest first.
func (s *Service) MyRequests(ctx context.Context, userID uint, page, pageSize int) ([]database.ContentRequest, int64, error) {
	return s.db.ListContentRequestsByUser(ctx, userID, page, pageSize)
}

// AllRequests returns a page of content requests across all users, newest
// first, optionally narrowed to one status. An unknown status value is
// rejected rather than silently matching nothing.
func (s *Service) AllRequests(ctx context.Context, status string, page, pageSize int) ([]database.ContentRequest, int64, error) {
	var filter *database.RequestStatus
	if status != "" {
		st := database.RequestStatus(status)
		if _, ok := requestStatuses[st]; !ok {
			return nil, 0, ErrInvalidStatus
		}
		filter = &st
	}
	return s.db.ListContentRequests(ctx, filter, page, pageSize)
}

// SetRequestStatus moves a content request to a new status, keeping the
// reviewer's notes.
func (s *Service) SetRequestStatus(ctx context.Context, id uint, status string, adminNotes string) (*database.ContentRequest, error) {
	st := database.RequestStatus(status)
	if _, ok := requestStatuses[st]; !ok {
		return nil, ErrInvalidStatus
	}
	if err := s.db.UpdateContentRequestStatus(ctx, id, st, adminNotes); err != nil {
		return nil, err
	}
	return s.db.GetContentRequestByID(ctx, id)
}
