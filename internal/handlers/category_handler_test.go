package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/models"
	"budgetly/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn       func(userID, name string, plaidID *string) (*models.Category, error)
	listCategoriesFn       func(userID string) ([]models.Category, error)
	getCategoryByIDFn      func(userID, categoryID string) (*models.Category, error)
	updateCategoryFn       func(userID, categoryID, name string) (*models.Category, error)
	deleteCategoryFn       func(userID, categoryID string) error
	bulkDeleteCategoriesFn func(userID string, ids []string) ([]string, error)
}

func (m *mockCategoryService) CreateCategory(_ context.Context, userID, name string, plaidID *string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, plaidID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) ListCategories(_ context.Context, userID string) ([]models.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(_ context.Context, userID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, userID, categoryID, name string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) BulkDeleteCategories(_ context.Context, userID string, ids []string) ([]string, error) {
	if m.bulkDeleteCategoriesFn != nil {
		return m.bulkDeleteCategoriesFn(userID, ids)
	}
	return []string{}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

const testCategoryID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4b00"

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.ListCategories)
	auth.POST("/categories/bulk-delete", handler.BulkDeleteCategories)
	auth.GET("/categories/:id", handler.GetCategory)
	auth.PATCH("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(userID, name string, _ *string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: testCategoryID}, UserID: userID, Name: name}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/categories", `{"name":"Groceries"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if dataObject(t, parseJSON(t, rec))["name"] != "Groceries" {
			t.Error("expected Groceries")
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	svc := &mockCategoryService{
		listCategoriesFn: func(string) ([]models.Category, error) {
			return []models.Category{{Name: "A"}, {Name: "B"}}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc))

	rec := doRequest(r, "GET", "/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(dataList(t, parseJSON(t, rec))) != 2 {
		t.Error("expected 2 categories")
	}
}

func TestCategoryHandler_GetUpdateDelete(t *testing.T) {
	t.Run("get returns 404", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoryByIDFn: func(_, _ string) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("update renames", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID, name string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: categoryID}, Name: name}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "PATCH", "/categories/"+testCategoryID, `{"name":"Rent"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if dataObject(t, parseJSON(t, rec))["name"] != "Rent" {
			t.Error("expected Rent")
		}
	})

	t.Run("delete returns id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "DELETE", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if dataObject(t, parseJSON(t, rec))["id"] != testCategoryID {
			t.Error("expected deleted id")
		}
	})

	t.Run("bulk delete", func(t *testing.T) {
		svc := &mockCategoryService{
			bulkDeleteCategoriesFn: func(_ string, ids []string) ([]string, error) {
				return ids, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/categories/bulk-delete", `{"ids":["`+testCategoryID+`"]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(dataList(t, parseJSON(t, rec))) != 1 {
			t.Error("expected 1 deleted id")
		}
	})
}
