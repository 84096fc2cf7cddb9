package handlers

import (
	"database/sql"
	"strings"

	"givetzy/internal/domain"
	applog "givetzy/internal/log"
	"givetzy/internal/services"
	"givetzy/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	Products  *services.ProductService
	UploadDir string
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := domain.ProductFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		SortBy:   validate.SortBy(c.Query("sortBy")),
		Order:    validate.Order(c.Query("order")),
	}
	if s := c.Query("status"); s != "" {
		st, ok := validate.ProductStatus(s)
		if !ok {
			return jsonErr(c, fiber.StatusBadRequest, "invalid status filter")
		}
		f.Status = st
	}
	if v := c.Query("minPrice"); v != "" {
		p, ok := validate.Price(v)
		if !ok {
			return jsonErr(c, fiber.StatusBadRequest, "invalid minPrice")
		}
		f.MinPrice = p
	}
	if v := c.Query("maxPrice"); v != "" {
		p, ok := validate.Price(v)
		if !ok {
			return jsonErr(c, fiber.StatusBadRequest, "invalid maxPrice")
		}
		f.MaxPrice = p
	}

	items, err := h.Products.List(f)
	if err != nil {
		applog.Error(c, "barang.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "item not found")
	}
	d, err := h.Products.Detail(id, currentUserID(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonErr(c, fiber.StatusNotFound, "item not found")
		}
		applog.Error(c, "barang.detail.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": d})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "name is required")
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "a valid price is required")
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		UserID:      currentUserID(c),
		Name:        name,
		Description: c.FormValue("description"),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Price:       price,
		Condition:   strings.TrimSpace(c.FormValue("condition")),
		Status:      domain.ProductAvailable,
		Location:    c.FormValue("location"),
	}

	// Uploaded file wins over an external URL.
	if file, err := c.FormFile("image"); err == nil && file != nil {
		path, err := saveImage(c, file, h.UploadDir, "products")
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return jsonErr(c, fe.Code, fe.Message)
			}
			applog.Error(c, "barang.upload.fail", err, nil)
			return jsonErr(c, fiber.StatusInternalServerError, "could not save image")
		}
		p.ImagePath = path
	} else if url := c.FormValue("image_url"); url != "" {
		p.ImagePath = url
	}

	if err := h.Products.Create(&p); err != nil {
		applog.Error(c, "barang.create.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "barang.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"msg": "item created", "data": p})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "item not found")
	}

	patch, err := h.parsePatch(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return jsonErr(c, fe.Code, fe.Message)
		}
		return jsonErr(c, fiber.StatusBadRequest, "invalid request body")
	}

	p, err := h.Products.Update(id, currentUserID(c), patch)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return jsonErr(c, fiber.StatusNotFound, "item not found")
		case services.ErrNotOwner:
			applog.Security(c, "barang.update.denied", map[string]any{"product_id": id})
			return jsonErr(c, fiber.StatusForbidden, "you do not own this item")
		}
		applog.Error(c, "barang.update.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"msg": "item updated", "data": p})
}

// parsePatch accepts either a JSON body or multipart form; only fields
// present in the request end up in the patch.
func (h *ProductHandler) parsePatch(c *fiber.Ctx) (domain.ProductPatch, error) {
	var patch domain.ProductPatch

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return patch, err
		}
		set := func(key string, dst **string) {
			if vs, ok := form.Value[key]; ok && len(vs) > 0 {
				v := vs[0]
				*dst = &v
			}
		}
		set("name", &patch.Name)
		set("description", &patch.Description)
		set("category", &patch.Category)
		set("condition", &patch.Condition)
		set("location", &patch.Location)
		if vs, ok := form.Value["price"]; ok && len(vs) > 0 {
			p, ok := validate.Price(vs[0])
			if !ok {
				return patch, fiber.NewError(fiber.StatusBadRequest, "invalid price")
			}
			patch.Price = &p
		}
		if vs, ok := form.Value["status"]; ok && len(vs) > 0 {
			st, ok := validate.ProductStatus(vs[0])
			if !ok {
				return patch, fiber.NewError(fiber.StatusBadRequest, "invalid status")
			}
			patch.Status = &st
		}
		if file, err := c.FormFile("image"); err == nil && file != nil {
			path, err := saveImage(c, file, h.UploadDir, "products")
			if err != nil {
				return patch, err
			}
			patch.ImagePath = &path
		}
		return patch, nil
	}

	if err := c.BodyParser(&patch); err != nil {
		return patch, err
	}
	if patch.Status != nil {
		st, ok := validate.ProductStatus(*patch.Status)
		if !ok {
			return patch, fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
		patch.Status = &st
	}
	if patch.Price != nil && *patch.Price < 0 {
		return patch, fiber.NewError(fiber.StatusBadRequest, "invalid price")
	}
	return patch, nil
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "item not found")
	}
	err := h.Products.Delete(id, currentUserID(c))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return jsonErr(c, fiber.StatusNotFound, "item not found")
		case services.ErrNotOwner:
			applog.Security(c, "barang.delete.denied", map[string]any{"product_id": id})
			return jsonErr(c, fiber.StatusForbidden, "you do not own this item")
		}
		applog.Error(c, "barang.delete.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "barang.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"msg": "item deleted"})
}

func (h *ProductHandler) ListMine(c *fiber.Ctx) error {
	status := ""
	if s := c.Query("status"); s != "" {
		st, ok := validate.ProductStatus(s)
		if !ok {
			return jsonErr(c, fiber.StatusBadRequest, "invalid status filter")
		}
		status = st
	}
	items, err := h.Products.ListMine(currentUserID(c), status)
	if err != nil {
		applog.Error(c, "barang.mine.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Products.Prods.Categories()
	if err != nil {
		applog.Error(c, "barang.categories.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": cats})
}
