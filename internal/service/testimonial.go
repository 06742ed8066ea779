package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"jumewears/internal/model"
	"jumewears/internal/repository"
)

// TestimonialService handles home-page testimonials. Each user may have at
// most one; only the owner may edit or remove it.
type TestimonialService struct {
	repo repository.TestimonialRepository
}

func NewTestimonialService(repo repository.TestimonialRepository) *TestimonialService {
	return &TestimonialService{repo: repo}
}

// Create adds the user's testimonial.
func (s *TestimonialService) Create(ctx context.Context, userID int64, content string) (*model.Testimonial, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("testimonial content is required")
	}

	if _, err := s.repo.GetByUser(ctx, userID); err == nil {
		return nil, model.ErrTestimonialExists
	} else if err != model.ErrTestimonialNotFound {
		return nil, err
	}

	t := &model.Testimonial{
		UserID:   userID,
		Content:  content,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}
	return t, nil
}

// Update replaces the user's testimonial content.
func (s *TestimonialService) Update(ctx context.Context, userID int64, content string) (*model.Testimonial, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("testimonial content is required")
	}

	t, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	t.Content = content
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update testimonial: %w", err)
	}
	return t, nil
}

// Delete removes the user's testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

// Toggle returns 6 or 12 shuffled active testimonials for the show-more
// fragment.
func (s *TestimonialService) Toggle(ctx context.Context, showMore bool) ([]model.Testimonial, error) {
	testimonials, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}

	rand.Shuffle(len(testimonials), func(i, j int) {
		testimonials[i], testimonials[j] = testimonials[j], testimonials[i]
	})

	limit := model.TestimonialsCollapsed
	if showMore {
		limit = model.TestimonialsExpanded
	}
	if len(testimonials) > limit {
		testimonials = testimonials[:limit]
	}
	return testimonials, nil
}
