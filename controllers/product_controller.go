package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService *services.ProductService
	imageService   *services.ImageService
}

func NewProductController(productService *services.ProductService, imageService *services.ImageService) *ProductController {
	return &ProductController{productService: productService, imageService: imageService}
}

// GetAllProducts godoc
// @Summary Get all products
// @Description Get paginated list of active products sorted by name
// @Tags Products
// @Produce json
// @Param type query string false "Filter by type" Enums(vegetable, fruit)
// @Param search query string false "Search by product name"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page, limit := pagination(c)

	result, err := ctrl.productService.GetAllProducts(c.Request.Context(), c.Query("type"), c.Query("search"), page, limit)
	if err != nil {
		respondError(c, "Failed to retrieve products", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProductByID godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.ProductView}
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id, false)
	if err != nil {
		respondError(c, "Product not found", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

// GetAnyProduct godoc
// @Summary Get product by ID, including deactivated ones
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.ProductView}
// @Failure 404 {object} models.ErrorResponse
// @Router /owner/products/{id} [get]
func (ctrl *ProductController) GetAnyProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, "Product not found", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

// CreateProduct godoc
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response{data=models.ProductView}
// @Router /owner/products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create product", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct godoc
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.ProductView}
// @Router /owner/products/{id} [patch]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete product", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// UploadProductImage godoc
// @Summary Upload product image
// @Description Replace the product image. Accepts jpg, jpeg, png, gif, webp.
// @Tags Products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param image formData file true "Image file"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Router /owner/products/{id}/image [post]
func (ctrl *ProductController) UploadProductImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Failed to read image", err)
		return
	}
	defer file.Close()

	product, err := ctrl.imageService.UploadProductImage(c.Request.Context(), id, file, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		respondError(c, "Failed to upload image", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product image uploaded successfully",
		Data:    product,
	})
}
