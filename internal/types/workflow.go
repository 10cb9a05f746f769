package types

import "time"

type WorkflowStatus string

const (
	WorkflowStatusPending  WorkflowStatus = "pending"
	WorkflowStatusInReview WorkflowStatus = "in-review"
	WorkflowStatusApproved WorkflowStatus = "approved"
	WorkflowStatusRejected WorkflowStatus = "rejected"
)

type ReviewComment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Resolved  bool      `json:"resolved"`
}

type ApprovalCriterion struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

type ApprovalWorkflow struct {
	ID               string              `json:"id"`
	CourseID         string              `json:"course_id"`
	Status           WorkflowStatus      `json:"status"`
	AssignedReviewer string              `json:"assigned_reviewer,omitempty"`
	ReviewComments   []ReviewComment     `json:"review_comments"`
	ApprovalCriteria []ApprovalCriterion `json:"approval_criteria"`
	CreatedAt        time.Time           `json:"created_at"`
	ReviewedAt       *time.Time          `json:"reviewed_at,omitempty"`
}

// WorkflowUpdate merges onto an ApprovalWorkflow; Comments are appended
// and ResolveCommentIDs mark existing comments resolved in place.
type WorkflowUpdate struct {
	Status            *WorkflowStatus
	AssignedReviewer  *string
	Comments          []ReviewComment
	ResolveCommentIDs []string
	Criteria          []ApprovalCriterion
	ReviewedAt        *time.Time
}

type BulkOperationType string

const (
	BulkOperationApprove BulkOperationType = "approve"
	BulkOperationReject  BulkOperationType = "reject"
	BulkOperationDelete  BulkOperationType = "delete"
	BulkOperationArchive BulkOperationType = "archive"
	BulkOperationPublish BulkOperationType = "publish"
)

type BulkOperationStatus string

const (
	BulkOperationStatusPending    BulkOperationStatus = "pending"
	BulkOperationStatusProcessing BulkOperationStatus = "processing"
	BulkOperationStatusCompleted  BulkOperationStatus = "completed"
	BulkOperationStatusFailed     BulkOperationStatus = "failed"
)

type BulkOperationResult struct {
	CourseID string `json:"course_id"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// BulkOperation processes a course id list item by item. Results grow to
// len(CourseIDs); Progress is recomputed as (processed/total)*100 after
// every item.
type BulkOperation struct {
	ID          string                `json:"id"`
	Type        BulkOperationType     `json:"type"`
	CourseIDs   []string              `json:"course_ids"`
	Status      BulkOperationStatus   `json:"status"`
	Progress    int                   `json:"progress"`
	Results     []BulkOperationResult `json:"results"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// BulkOperationUpdate merges onto a BulkOperation; Results are appended.
type BulkOperationUpdate struct {
	Status      *BulkOperationStatus
	Progress    *int
	Results     []BulkOperationResult
	CompletedAt *time.Time
}
