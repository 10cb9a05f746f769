package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

// ApproveCourse stamps the reviewer on the course, resolves its workflow
// and moves the request status to approved. Returns false for unknown
// course ids.
func (s *generationService) ApproveCourse(courseID, reviewer, notes string) bool {
	course, ok := s.genRepo.GetCourse(courseID)
	if !ok {
		return false
	}

	now := time.Now()
	upd := types.CourseUpdate{
		ApprovedBy: &reviewer,
		ApprovedAt: &now,
	}
	if notes != "" {
		upd.ReviewNotes = &notes
	}
	if !s.genRepo.UpdateCourse(courseID, upd) {
		return false
	}

	if wf, ok := s.genRepo.GetWorkflowForCourse(courseID); ok {
		status := types.WorkflowStatusApproved
		s.genRepo.UpdateApprovalWorkflow(wf.ID, types.WorkflowUpdate{
			Status:     &status,
			ReviewedAt: &now,
		})
	}

	s.setProgress(course.GenerationRequest.ID, statusPtr(types.GenerationStatusApproved),
		"Approved", 100, "", fmt.Sprintf("approved by %s", reviewer))
	return true
}

// RejectCourse records the decision without deleting the course; rejected
// content stays reviewable.
func (s *generationService) RejectCourse(courseID, reviewer, notes string) bool {
	course, ok := s.genRepo.GetCourse(courseID)
	if !ok {
		return false
	}

	now := time.Now()
	if notes != "" {
		if !s.genRepo.UpdateCourse(courseID, types.CourseUpdate{ReviewNotes: &notes}) {
			return false
		}
	}
	if wf, ok := s.genRepo.GetWorkflowForCourse(courseID); ok {
		status := types.WorkflowStatusRejected
		s.genRepo.UpdateApprovalWorkflow(wf.ID, types.WorkflowUpdate{
			Status:     &status,
			ReviewedAt: &now,
			Comments: []types.ReviewComment{{
				ID:        uuid.NewString(),
				Author:    reviewer,
				Comment:   notes,
				CreatedAt: now,
			}},
		})
	}

	s.setProgress(course.GenerationRequest.ID, statusPtr(types.GenerationStatusRejected),
		"Rejected", 100, "", fmt.Sprintf("rejected by %s", reviewer))
	return true
}

// ProcessBulkOperation applies one action across a course id list, item by
// item. A failing item records its error and processing continues; the
// operation itself always completes.
func (s *generationService) ProcessBulkOperation(opType types.BulkOperationType, courseIDs []string) (types.BulkOperation, error) {
	switch opType {
	case types.BulkOperationApprove, types.BulkOperationReject, types.BulkOperationDelete,
		types.BulkOperationArchive, types.BulkOperationPublish:
	default:
		return types.BulkOperation{}, fmt.Errorf("unknown bulk operation type %q: %w", opType, repos.ErrInvalidArgument)
	}
	if len(courseIDs) == 0 {
		return types.BulkOperation{}, fmt.Errorf("no course ids supplied: %w", repos.ErrInvalidArgument)
	}

	op := types.BulkOperation{
		ID:        uuid.NewString(),
		Type:      opType,
		CourseIDs: courseIDs,
		Status:    types.BulkOperationStatusPending,
		Results:   []types.BulkOperationResult{},
		CreatedAt: time.Now(),
	}
	s.genRepo.AddBulkOperation(op)

	processing := types.BulkOperationStatusProcessing
	s.genRepo.UpdateBulkOperation(op.ID, types.BulkOperationUpdate{Status: &processing})

	total := len(courseIDs)
	for i, courseID := range courseIDs {
		result := types.BulkOperationResult{CourseID: courseID, Success: true}
		if err := s.applyBulkAction(opType, courseID); err != nil {
			result.Success = false
			result.Error = err.Error()
		}

		pct := (i + 1) * 100 / total
		s.genRepo.UpdateBulkOperation(op.ID, types.BulkOperationUpdate{
			Progress: &pct,
			Results:  []types.BulkOperationResult{result},
		})
	}

	completed := types.BulkOperationStatusCompleted
	now := time.Now()
	s.genRepo.UpdateBulkOperation(op.ID, types.BulkOperationUpdate{
		Status:      &completed,
		CompletedAt: &now,
	})

	final, _ := s.genRepo.GetBulkOperation(op.ID)
	s.log.Info("bulk operation complete", "op_id", op.ID, "type", opType, "items", total)
	return final, nil
}

func (s *generationService) applyBulkAction(opType types.BulkOperationType, courseID string) error {
	course, ok := s.genRepo.GetCourse(courseID)
	if !ok {
		return fmt.Errorf("course %s not found", courseID)
	}

	switch opType {
	case types.BulkOperationApprove:
		if !s.ApproveCourse(courseID, "bulk-operation", "") {
			return fmt.Errorf("approve failed for %s", courseID)
		}
	case types.BulkOperationReject:
		if !s.RejectCourse(courseID, "bulk-operation", "rejected in bulk") {
			return fmt.Errorf("reject failed for %s", courseID)
		}
	case types.BulkOperationDelete:
		if !s.genRepo.DeleteCourse(courseID) {
			return fmt.Errorf("delete failed for %s", courseID)
		}
	case types.BulkOperationArchive:
		archived := "Archived"
		notPopular := false
		if !s.genRepo.UpdateCourse(courseID, types.CourseUpdate{Category: &archived, IsPopular: &notPopular}) {
			return fmt.Errorf("archive failed for %s", courseID)
		}
	case types.BulkOperationPublish:
		if !course.Approved() {
			return fmt.Errorf("course %s is not approved", courseID)
		}
		s.setProgress(course.GenerationRequest.ID, statusPtr(types.GenerationStatusPublished),
			"Published", 100, "", "course published")
	}
	return nil
}
