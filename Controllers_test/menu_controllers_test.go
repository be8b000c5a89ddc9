package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/controllers"
	"github.com/thanwa/qr-table-order/models"
	"github.com/thanwa/qr-table-order/utils"
)

func setupTestDBForMenus() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:menutest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.MenuCategory{}, &models.Menu{})
	if err != nil {
		panic(err)
	}
	db.Exec("DELETE FROM menus")
	db.Exec("DELETE FROM menu_categories")
	db.Exec("DELETE FROM sqlite_sequence")
	return db
}

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	router.POST("/categories", categoryCtrl.CreateCategory)
	router.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)
	router.POST("/menus", menuCtrl.CreateMenu)
	router.GET("/menus", menuCtrl.GetAllMenus)
	router.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	return router
}

func TestCreateMenuRequiresCategory(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus()
	router := setupMenuRouter(db)

	w := doJSON(router, "POST", "/menus", map[string]interface{}{
		"category_id": 42,
		"name":        "Orphan Dish",
		"price":       99.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDuplicateCategoryConflicts(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus()
	router := setupMenuRouter(db)

	w := doJSON(router, "POST", "/categories", map[string]interface{}{"name": "Drinks"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/categories", map[string]interface{}{"name": "Drinks"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteCategoryBlockedWhileMenusExist(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus()
	router := setupMenuRouter(db)

	category := models.MenuCategory{Name: "Food"}
	db.Create(&category)
	db.Create(&models.Menu{CategoryID: category.ID, Name: "Pad Thai", Price: 120, IsAvailable: true})

	w := doJSON(router, "DELETE", "/categories/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	db.Where("category_id = ?", category.ID).Delete(&models.Menu{})
	w = doJSON(router, "DELETE", "/categories/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAvailableFilterHidesUnavailableMenus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus()
	router := setupMenuRouter(db)

	category := models.MenuCategory{Name: "Food"}
	db.Create(&category)
	db.Create(&models.Menu{CategoryID: category.ID, Name: "Pad Thai", Price: 120, IsAvailable: true})
	db.Create(&models.Menu{CategoryID: category.ID, Name: "Sold Out Soup", Price: 90, IsAvailable: true})
	// The default tag would override a zero-valued bool on create.
	db.Model(&models.Menu{}).Where("name = ?", "Sold Out Soup").Update("is_available", false)

	w := doJSON(router, "GET", "/menus?available=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	menus := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, menus, 1)

	w = doJSON(router, "GET", "/menus", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	menus = decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, menus, 2)
}

func TestUpdateMenuRejectsNonPositivePrice(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus()
	router := setupMenuRouter(db)

	category := models.MenuCategory{Name: "Food"}
	db.Create(&category)
	db.Create(&models.Menu{CategoryID: category.ID, Name: "Pad Thai", Price: 120, IsAvailable: true})

	w := doJSON(router, "PATCH", "/menus/1", map[string]interface{}{"price": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var menu models.Menu
	db.First(&menu, 1)
	assert.Equal(t, 120.0, menu.Price)
}
