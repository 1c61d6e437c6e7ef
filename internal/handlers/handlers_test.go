// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
	"github.com/ismaelcabanas/home-inventory-backend/internal/preferences"
	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
	"github.com/ismaelcabanas/home-inventory-backend/internal/store"
)

type HandlersTestSuite struct {
	suite.Suite
	router       *gin.Engine
	inventory    *services.InventoryService
	shoppingList *services.ShoppingListService
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	productStore := store.NewMemoryProductStore()
	suite.inventory = services.NewInventoryService(productStore)
	suite.shoppingList = services.NewShoppingListService(productStore, preferences.NewMemoryStore())

	inventoryHandler := NewInventoryHandler(suite.inventory)
	shoppingListHandler := NewShoppingListHandler(suite.shoppingList)

	r := gin.New()
	r.GET("/v1/products", inventoryHandler.GetProducts)
	r.POST("/v1/products", inventoryHandler.CreateProduct)
	r.GET("/v1/products/:id", inventoryHandler.GetProduct)
	r.PATCH("/v1/products/:id", inventoryHandler.UpdateProduct)
	r.DELETE("/v1/products/:id", inventoryHandler.DeleteProduct)
	r.POST("/v1/products/:id/cycle-stock", inventoryHandler.CycleStockLevel)
	r.GET("/v1/shopping-list", shoppingListHandler.GetListItems)
	r.PUT("/v1/shopping-list/mode", shoppingListHandler.SetShoppingMode)
	r.PUT("/v1/shopping-list/:id/checked", shoppingListHandler.UpdateCheckedState)
	suite.router = r
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var envelope map[string]any
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func (suite *HandlersTestSuite) createProduct(name string) string {
	w := suite.request(http.MethodPost, "/v1/products", gin.H{"name": name})
	require.Equal(suite.T(), http.StatusCreated, w.Code)
	data := suite.decode(w)["data"].(map[string]any)
	return data["id"].(string)
}

func (suite *HandlersTestSuite) TestCreateProductDefaults() {
	w := suite.request(http.MethodPost, "/v1/products", gin.H{"name": "Milk"})
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	envelope := suite.decode(w)
	assert.Equal(suite.T(), true, envelope["success"])
	data := envelope["data"].(map[string]any)
	assert.Equal(suite.T(), "Milk", data["name"])
	assert.Equal(suite.T(), string(models.StockLevelHigh), data["stock_level"])
	assert.Equal(suite.T(), false, data["is_on_shopping_list"])
}

func (suite *HandlersTestSuite) TestCreateProductMissingName() {
	w := suite.request(http.MethodPost, "/v1/products", gin.H{})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateImmutableFieldRejected() {
	id := suite.createProduct("Milk")

	w := suite.request(http.MethodPatch, "/v1/products/"+id, gin.H{"id": "other", "name": "Oat Milk"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)

	// the valid part of the payload must not have been applied
	w = suite.request(http.MethodGet, "/v1/products/"+id, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]any)
	assert.Equal(suite.T(), "Milk", data["name"])
}

func (suite *HandlersTestSuite) TestUpdateUnknownFieldRejected() {
	id := suite.createProduct("Milk")
	w := suite.request(http.MethodPatch, "/v1/products/"+id, gin.H{"color": "blue"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateStockDrivesList() {
	id := suite.createProduct("Milk")

	w := suite.request(http.MethodPatch, "/v1/products/"+id, gin.H{"stock_level": "low"})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]any)
	assert.Equal(suite.T(), true, data["is_on_shopping_list"])
}

func (suite *HandlersTestSuite) TestUpdateMissingProduct() {
	w := suite.request(http.MethodPatch, "/v1/products/00000000-0000-0000-0000-000000000001", gin.H{"name": "x2"})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteIsIdempotent() {
	id := suite.createProduct("Milk")

	w := suite.request(http.MethodDelete, "/v1/products/"+id, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	w = suite.request(http.MethodDelete, "/v1/products/"+id, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code, "deleting a missing product is a no-op")
}

func (suite *HandlersTestSuite) TestCycleStock() {
	id := suite.createProduct("Milk")

	w := suite.request(http.MethodPost, "/v1/products/"+id+"/cycle-stock", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]any)
	assert.Equal(suite.T(), string(models.StockLevelMedium), data["stock_level"])
}

func (suite *HandlersTestSuite) TestInvalidProductID() {
	w := suite.request(http.MethodGet, "/v1/products/not-a-uuid", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCheckedStateRequiresShoppingMode() {
	id := suite.createProduct("Milk")
	suite.request(http.MethodPatch, "/v1/products/"+id, gin.H{"stock_level": "low"})

	// planning mode: checkbox writes are rejected
	w := suite.request(http.MethodPut, "/v1/shopping-list/"+id+"/checked", gin.H{"checked": true})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// flip to shopping mode and retry
	w = suite.request(http.MethodPut, "/v1/shopping-list/mode", gin.H{"enabled": true})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request(http.MethodPut, "/v1/shopping-list/"+id+"/checked", gin.H{"checked": true})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]any)
	assert.Equal(suite.T(), true, data["is_checked"])
}

func (suite *HandlersTestSuite) TestSearchProducts() {
	suite.createProduct("Whole Milk")
	suite.createProduct("Bread")

	w := suite.request(http.MethodGet, "/v1/products?q=milk", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	items := suite.decode(w)["data"].([]any)
	require.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), "Whole Milk", items[0].(map[string]any)["name"])
}
