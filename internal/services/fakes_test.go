package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
)

func asUser(id uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id})
}

type fakeUserRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*types.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*types.User{}}
}

func (r *fakeUserRepo) Create(_ dbctx.Context, users []*types.User) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range users {
		r.byEmail[strings.ToLower(u.Email)] = u
	}
	return users, nil
}

func (r *fakeUserRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, u := range r.byEmail {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByEmail(_ dbctx.Context, email string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[strings.ToLower(email)], nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[uuid.UUID]*types.Course
	total   int64
	lastQ   repos.CourseQuery
	getErr  error
}

func newFakeCourseRepo(courses ...*types.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[uuid.UUID]*types.Course{}}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) Create(_ dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return courses, nil
}

func (r *fakeCourseRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	var out []*types.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByUserIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Course
	for _, c := range r.courses {
		for _, id := range ids {
			if c.OwnerID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) List(_ dbctx.Context, q repos.CourseQuery) ([]*types.Course, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQ = q
	var out []*types.Course
	for _, c := range r.courses {
		out = append(out, c)
	}
	total := r.total
	if total == 0 {
		total = int64(len(out))
	}
	return out, total, nil
}

func (r *fakeCourseRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "title":
			c.Title = s
		case "description":
			c.Description = s
		case "category":
			c.Category = s
		case "banner_url":
			c.BannerURL = s
		}
	}
	return nil
}

func (r *fakeCourseRepo) SoftDeleteByIDs(_ dbctx.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.courses, id)
	}
	return nil
}

// storedCourse is a one-module, two-lesson course owned by ownerID.
func storedCourse(ownerID uuid.UUID) *types.Course {
	courseID := uuid.New()
	moduleID := uuid.New()
	return &types.Course{
		ID:           courseID,
		OwnerID:      ownerID,
		Title:        "Python Basics: A Beginner Academic Course",
		Topic:        "Python Basics",
		Level:        "Beginner",
		LearningGoal: "Academic",
		Category:     "Programming",
		Modules: []*types.CourseModule{{
			ID:       moduleID,
			CourseID: courseID,
			Position: 1,
			Title:    "Getting Started",
			Lessons: []*types.Lesson{
				{ID: uuid.New(), ModuleID: moduleID, Position: 1, Title: "Variables"},
				{ID: uuid.New(), ModuleID: moduleID, Position: 2, Title: "Loops"},
			},
		}},
	}
}
