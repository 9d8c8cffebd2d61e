package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

func TestCreateCategoryUseCase_Execute(t *testing.T) {
	retired := entity.NewCategory("Hobbies", nil, 5)
	retired.Deactivate()

	tests := []struct {
		name         string
		input        CreateCategoryInput
		expectedErr  error
		expectedCode domainerror.CategoryErrorCode
		expectedSlug string
	}{
		{
			name:         "derives slug",
			input:        CreateCategoryInput{Name: "Eating Out!!", SortOrder: 3},
			expectedSlug: "eating-out",
		},
		{
			name:         "accepts matching client slug",
			input:        CreateCategoryInput{Name: "Pet Food", Slug: "pet-food"},
			expectedSlug: "pet-food",
		},
		{
			name:         "empty name",
			input:        CreateCategoryInput{Name: "   "},
			expectedErr:  domainerror.ErrCategoryNameRequired,
			expectedCode: domainerror.ErrCodeCategoryNameRequired,
		},
		{
			name:         "name too long",
			input:        CreateCategoryInput{Name: strings.Repeat("a", MaxCategoryNameLength+1)},
			expectedErr:  domainerror.ErrCategoryNameTooLong,
			expectedCode: domainerror.ErrCodeCategoryNameTooLong,
		},
		{
			name:         "no slug characters",
			input:        CreateCategoryInput{Name: "!!!"},
			expectedErr:  domainerror.ErrCategorySlugEmpty,
			expectedCode: domainerror.ErrCodeCategorySlugEmpty,
		},
		{
			name:         "mismatched client slug",
			input:        CreateCategoryInput{Name: "Pet Food", Slug: "pets"},
			expectedErr:  domainerror.ErrCategorySlugMismatch,
			expectedCode: domainerror.ErrCodeCategorySlugMismatch,
		},
		{
			name:         "slug taken by inactive category",
			input:        CreateCategoryInput{Name: "HOBBIES"},
			expectedErr:  domainerror.ErrCategorySlugExists,
			expectedCode: domainerror.ErrCodeCategorySlugExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockCategoryRepo(retired)
			cache := &mockCache{}
			uc := NewCreateCategoryUseCase(repo, cache)

			output, err := uc.Execute(context.Background(), tt.input)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				var catErr *domainerror.CategoryError
				if !errors.As(err, &catErr) || catErr.Code != tt.expectedCode {
					t.Errorf("expected code %s, got %v", tt.expectedCode, err)
				}
				if len(repo.categories) != 1 {
					t.Error("expected nothing to be created")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.Category.Slug != tt.expectedSlug {
				t.Errorf("expected slug %s, got %s", tt.expectedSlug, output.Category.Slug)
			}
			if cache.invalidateAllCalls != 1 {
				t.Errorf("expected cache invalidation, got %d calls", cache.invalidateAllCalls)
			}
		})
	}
}

func TestCreateCategoryUseCase_SlugCollision(t *testing.T) {
	repo := newMockCategoryRepo()
	uc := NewCreateCategoryUseCase(repo, nil)

	first, err := uc.Execute(context.Background(), CreateCategoryInput{Name: "Eating Out!!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Category.Slug != "eating-out" {
		t.Errorf("expected eating-out, got %s", first.Category.Slug)
	}

	_, err = uc.Execute(context.Background(), CreateCategoryInput{Name: "Eating   Out"})
	if domainerror.KindOf(err) != domainerror.KindConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCreateCategoryUseCase_RepositoryConflict(t *testing.T) {
	repo := newMockCategoryRepo()
	repo.createErr = domainerror.ErrCategorySlugExists
	uc := NewCreateCategoryUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), CreateCategoryInput{Name: "Travel"})
	if domainerror.KindOf(err) != domainerror.KindConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}
