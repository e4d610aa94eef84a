package engagement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/movie-catalog/internal/platform/analytics"
)

// Like, unlike, comment and comment-removal operations on individual
// reviews. Likes and comments accrue to the review's *author*: liking
// someone's review recomputes their engagement score, not the liker's.
// Likes also feed the movie's trending weight, so like mutations rerun the
// movie chain as well.

// AddLike appends actingUserID to the review's like set.
// At most one like per user; a second like is a conflict, not a no-op.
func (s *Service) AddLike(ctx context.Context, reviewID, actingUserID string) (Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	if rv.LikedBy(actingUserID) {
		return Review{}, ErrAlreadyLiked
	}
	rv.Likes = append(rv.Likes, actingUserID)
	rv.UpdatedAt = time.Now().UTC()
	if err := s.reviews.Update(ctx, rv); err != nil {
		return Review{}, err
	}

	s.RecomputeMovie(ctx, rv.MovieID)
	s.RecomputeUser(ctx, rv.UserID)
	s.events.Publish(analytics.SubjectReviewLiked, "review_liked", actingUserID,
		map[string]any{"review_id": reviewID, "author_id": rv.UserID})
	return rv, nil
}

// RemoveLike removes actingUserID from the review's like set.
func (s *Service) RemoveLike(ctx context.Context, reviewID, actingUserID string) (Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	idx := -1
	for i, id := range rv.Likes {
		if id == actingUserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Review{}, fmt.Errorf("%w: like", ErrNotFound)
	}
	rv.Likes = append(rv.Likes[:idx], rv.Likes[idx+1:]...)
	rv.UpdatedAt = time.Now().UTC()
	if err := s.reviews.Update(ctx, rv); err != nil {
		return Review{}, err
	}

	s.RecomputeMovie(ctx, rv.MovieID)
	s.RecomputeUser(ctx, rv.UserID)
	s.events.Publish(analytics.SubjectReviewUnliked, "review_unliked", actingUserID,
		map[string]any{"review_id": reviewID, "author_id": rv.UserID})
	return rv, nil
}

// AddComment appends a comment to the review. Duplicate submissions are not
// deduplicated; rapid double-posts create two comments.
func (s *Service) AddComment(ctx context.Context, reviewID, actingUserID, text string) (Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Review{}, fmt.Errorf("%w: comment text must not be empty", ErrInvalidInput)
	}
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	rv.Comments = append(rv.Comments, Comment{
		ID:        uuid.NewString(),
		UserID:    actingUserID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	rv.UpdatedAt = time.Now().UTC()
	if err := s.reviews.Update(ctx, rv); err != nil {
		return Review{}, err
	}

	s.RecomputeUser(ctx, rv.UserID)
	s.events.Publish(analytics.SubjectCommentAdded, "comment_added", actingUserID,
		map[string]any{"review_id": reviewID, "author_id": rv.UserID})
	return rv, nil
}

// RemoveComment deletes a comment by id. Only the comment's author may
// remove it.
func (s *Service) RemoveComment(ctx context.Context, reviewID, commentID, actingUserID string) (Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	idx := -1
	for i, c := range rv.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Review{}, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}
	if rv.Comments[idx].UserID != actingUserID {
		return Review{}, fmt.Errorf("%w: only the comment author may remove it", ErrForbidden)
	}
	rv.Comments = append(rv.Comments[:idx], rv.Comments[idx+1:]...)
	rv.UpdatedAt = time.Now().UTC()
	if err := s.reviews.Update(ctx, rv); err != nil {
		return Review{}, err
	}

	s.RecomputeUser(ctx, rv.UserID)
	s.events.Publish(analytics.SubjectCommentRemoved, "comment_removed", actingUserID,
		map[string]any{"review_id": reviewID, "author_id": rv.UserID})
	return rv, nil
}

// GetComments returns the review's comments in insertion order, annotated
// with the commenting user's display name.
func (s *Service) GetComments(ctx context.Context, reviewID string) ([]AnnotatedComment, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rv.Comments))
	for _, c := range rv.Comments {
		ids = append(ids, c.UserID)
	}
	names := s.resolveNames(ctx, ids)
	out := make([]AnnotatedComment, 0, len(rv.Comments))
	for _, c := range rv.Comments {
		out = append(out, AnnotatedComment{Comment: c, AuthorName: names[c.UserID]})
	}
	return out, nil
}
