package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// RequestStatus is the state of a content request. Transitions are admin-only
// and unconstrained.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusAdded    RequestStatus = "added"
)

// ContentRequest is a user's request for a title missing from the catalog.
type ContentRequest struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	MediaType   MediaType
	Year        *int
	Description string
	Status      RequestStatus `gorm:"not null;default:'pending';index"`
	AdminNotes  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateContentRequest inserts a new content request with pending status.
func (c *Client) CreateContentRequest(ctx context.Context, request *ContentRequest) error {
	request.Status = RequestStatusPending
	if err := c.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create content request: %w", err)
	}
	return nil
}

// GetContentRequestByID retrieves one content request.
func (c *Client) GetContentRequestByID(ctx context.Context, id uint) (*ContentRequest, error) {
	var request ContentRequest
	err := c.db.WithContext(ctx).First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content request: %w", err)
	}
	return &request, nil
}

// ListContentRequestsByUser returns one page of a user's requests, newest first.
func (c *Client) ListContentRequestsByUser(ctx context.Context, userID uint, page, pageSize int) ([]ContentRequest, int64, error) {
	return c.listContentRequests(ctx, c.db.WithContext(ctx).Model(&ContentRequest{}).Where("user_id = ?", userID), page, pageSize)
}

// ListContentRequests returns one page of all requests, optionally filtered by
// status, newest first.
func (c *Client) ListContentRequests(ctx context.Context, status *RequestStatus, page, pageSize int) ([]ContentRequest, int64, error) {
	tx := c.db.WithContext(ctx).Model(&ContentRequest{})
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	return c.listContentRequests(ctx, tx, page, pageSize)
}

func (c *Client) listContentRequests(ctx context.Context, tx *gorm.DB, page, pageSize int) ([]ContentRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count content requests: %w", err)
	}

	var requests []ContentRequest
	err := tx.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list content requests: %w", err)
	}
	return requests, total, nil
}

// UpdateContentRequestStatus sets the status and admin notes of a request.
func (c *Client) UpdateContentRequestStatus(ctx context.Context, id uint, status RequestStatus, adminNotes string) error {
	res := c.db.WithContext(ctx).Model(&ContentRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "admin_notes": adminNotes})
	if res.Error != nil {
		return fmt.Errorf("failed to update content request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
