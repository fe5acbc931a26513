package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	domaininv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/settingsfile"
	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
)

// apiFixture app completa sobre el store en memoria.
type apiFixture struct {
	app         *fiber.App
	productID   int64
	warehouseA  int64
	warehouseB  int64
	managerAuth string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	repos := store.Repos()
	reports := store.Reports()
	rec := metrics.New()

	companyUC := usecase.NewCompanyUseCase(settingsfile.New(filepath.Join(t.TempDir(), "company.json")), time.Minute, log)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:          inventory.NewStockLedger(store, domaininv.DefaultStockPolicy(), rec, log),
		PositionsUC:     inventory.NewPositionsUseCase(repos.Products, repos.Positions),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(reports),
		HistoryUC:       inventory.NewMovementHistoryUseCase(reports),
		ProductUC:       usecase.NewProductUseCase(repos.Products),
		WarehouseUC:     usecase.NewWarehouseUseCase(repos.Warehouses),
		UnitUC:          usecase.NewUnitUseCase(store.Units()),
		CategoryUC:      usecase.NewCategoryUseCase(store.Categories()),
		CompanyUC:       companyUC,
		DashboardUC:     appanalytics.NewDashboardUseCase(reports, companyUC),
		Metrics:         rec,
		JWTSecret:       testJWTSecret,
		JWTIssuer:       testIssuer,
	})

	f := &apiFixture{app: app, managerAuth: tokenForRole(t, "manager")}

	var p dto.ProductResponse
	resp := f.send(t, http.MethodPost, "/api/products", f.managerAuth, `{"sku":"PERF-1","name":"Oud 100ml","min_stock":"10","default_cost":"2.5"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &p)
	f.productID = p.ID

	for i, name := range []string{"Principal", "Tienda"} {
		var w dto.WarehouseResponse
		resp := f.send(t, http.MethodPost, "/api/warehouses", f.managerAuth, fmt.Sprintf(`{"code":"w%d","name":%q}`, i, name))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		decode(t, resp, &w)
		if i == 0 {
			f.warehouseA = w.ID
		} else {
			f.warehouseB = w.ID
		}
	}
	return f
}

func (f *apiFixture) send(t *testing.T, method, path, auth, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) adjustJSON(t *testing.T, warehouseID int64, delta string) *http.Response {
	t.Helper()
	body := fmt.Sprintf(`{"product_id":%d,"warehouse_id":%d,"delta":%s,"reason":"conteo"}`, f.productID, warehouseID, delta)
	return f.send(t, http.MethodPost, "/api/inventory/adjustments", f.managerAuth, body)
}

func (f *apiFixture) adjustForm(t *testing.T, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/adjustments", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.Header.Set(fiber.HeaderAuthorization, f.managerAuth)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) movementCount(t *testing.T) int {
	t.Helper()
	var history dto.MovementHistoryResponse
	resp := f.send(t, http.MethodGet, "/api/reports/movements", f.managerAuth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &history)
	return len(history.Items)
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.send(t, http.MethodGet, "/api/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestAPI_AjusteJSON(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.adjustJSON(t, f.warehouseA, "5")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.AdjustStockResponse
	decode(t, resp, &out)

	assert.Equal(t, "ADJUSTMENT", out.Movement.Type)
	assert.Equal(t, "MANUAL_ADJUST", out.Movement.Reference)
	assert.True(t, out.Movement.Quantity.Equal(decimal.NewFromInt(5)))
	require.NotNil(t, out.Movement.Notes)
	assert.Equal(t, "conteo", *out.Movement.Notes)
	require.NotNil(t, out.Movement.CreatedBy)
	assert.Equal(t, testUserID, *out.Movement.CreatedBy)
	assert.True(t, out.Position.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestAPI_AjusteFormulario(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.adjustJSON(t, f.warehouseA, "5").StatusCode)

	resp := f.adjustForm(t, url.Values{
		"productId":   {fmt.Sprint(f.productID)},
		"warehouseId": {fmt.Sprint(f.warehouseA)},
		"quantity":    {"-2"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.AdjustStockResponse
	decode(t, resp, &out)
	assert.Nil(t, out.Movement.Notes, "sin motivo las notas quedan en null")

	var positions dto.ProductPositionsResponse
	resp = f.send(t, http.MethodGet, fmt.Sprintf("/api/inventory/positions/%d", f.productID), f.managerAuth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &positions)
	assert.True(t, positions.Total.Equal(decimal.NewFromInt(3)))
}

func TestAPI_AjusteFormularioSinQuantity(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.adjustForm(t, url.Values{
		"productId":   {fmt.Sprint(f.productID)},
		"warehouseId": {fmt.Sprint(f.warehouseA)},
		"delta":       {"5"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
	assert.Zero(t, f.movementCount(t))
}

func TestAPI_AjusteDeltaFueraDePrecision(t *testing.T) {
	f := newAPIFixture(t)
	for _, delta := range []string{"0.00001", "10000000000"} {
		resp := f.adjustJSON(t, f.warehouseA, delta)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, delta)
		assert.Equal(t, "VALIDATION", errorCode(t, resp), delta)
	}
	resp := f.adjustForm(t, url.Values{
		"productId":   {fmt.Sprint(f.productID)},
		"warehouseId": {fmt.Sprint(f.warehouseA)},
		"quantity":    {"0.00001"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, f.movementCount(t))
}

func TestAPI_AjusteErrores(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.adjustJSON(t, f.warehouseA, "0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))

	resp = f.adjustJSON(t, 999, "1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))

	resp = f.send(t, http.MethodPost, "/api/inventory/adjustments", f.managerAuth, `{"product_id":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))

	resp = f.send(t, http.MethodPost, "/api/inventory/adjustments", f.managerAuth, `{no es json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := fmt.Sprintf(`{"product_id":%d,"warehouse_id":%d,"delta":1}`, f.productID, f.warehouseA)
	resp = f.send(t, http.MethodPost, "/api/inventory/adjustments", tokenForRole(t, "cashier"), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

func TestAPI_Traslado(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.adjustJSON(t, f.warehouseA, "8").StatusCode)

	body := fmt.Sprintf(`{"product_id":%d,"from_warehouse_id":%d,"to_warehouse_id":%d,"quantity":"3"}`,
		f.productID, f.warehouseA, f.warehouseB)
	resp := f.send(t, http.MethodPost, "/api/inventory/transfers", f.managerAuth, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.TransferStockResponse
	decode(t, resp, &out)

	assert.Equal(t, "TRANSFER_OUT", out.Out.Type)
	assert.Equal(t, "TRANSFER_IN", out.In.Type)
	assert.Equal(t, out.TransactionID, out.Out.TransactionID)
	assert.Equal(t, out.TransactionID, out.In.TransactionID)
	assert.True(t, out.Origin.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, out.Destination.Quantity.Equal(decimal.NewFromInt(3)))

	same := fmt.Sprintf(`{"product_id":%d,"from_warehouse_id":%d,"to_warehouse_id":%d,"quantity":1}`,
		f.productID, f.warehouseA, f.warehouseA)
	resp = f.send(t, http.MethodPost, "/api/inventory/transfers", f.managerAuth, same)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Reportes(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.adjustJSON(t, f.warehouseA, "4").StatusCode)

	var low struct {
		Total int                              `json:"total"`
		Items []dto.ReplenishmentSuggestionDTO `json:"items"`
	}
	resp := f.send(t, http.MethodGet, "/api/reports/low-stock", f.managerAuth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &low)
	require.Equal(t, 1, low.Total)
	assert.Equal(t, "PERF-1", low.Items[0].SKU)

	var history dto.MovementHistoryResponse
	resp = f.send(t, http.MethodGet, "/api/reports/movements?q=perf&type=adjustment", f.managerAuth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &history)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "Principal", history.Items[0].WarehouseName)

	resp = f.send(t, http.MethodGet, "/api/reports/movements?from=ayer", f.managerAuth, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DashboardUsaMonedaDeLaEmpresa(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.adjustJSON(t, f.warehouseA, "4").StatusCode)

	resp := f.send(t, http.MethodPut, "/api/company", tokenForRole(t, "admin"), `{"name":"Perfumería","currencySymbol":"$"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var d dto.DashboardDTO
	resp = f.send(t, http.MethodGet, "/api/dashboard", f.managerAuth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &d)
	assert.Equal(t, 1, d.ActiveProducts)
	assert.Equal(t, 2, d.ActiveWarehouses)
	assert.Equal(t, "$10.00", d.InventoryValueLabel)
	assert.Equal(t, 1, d.MovementsCount)
}

func TestAPI_CompanySoloAdminEscribe(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.send(t, http.MethodPut, "/api/company", f.managerAuth, `{"name":"X"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.send(t, http.MethodPut, "/api/company", tokenForRole(t, "admin"), `{"email":"no-es-email"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestAPI_BorrarProductoConMovimientos(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.adjustJSON(t, f.warehouseA, "1").StatusCode)

	resp := f.send(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", f.productID), f.managerAuth, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, resp))

	resp = f.send(t, http.MethodGet, "/api/products/abc", f.managerAuth, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_BorrarBodega(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.adjustJSON(t, f.warehouseA, "1").StatusCode)

	resp := f.send(t, http.MethodDelete, fmt.Sprintf("/api/warehouses/%d", f.warehouseB), tokenForRole(t, "cashier"), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.send(t, http.MethodDelete, fmt.Sprintf("/api/warehouses/%d", f.warehouseA), f.managerAuth, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, resp))

	resp = f.send(t, http.MethodDelete, fmt.Sprintf("/api/warehouses/%d", f.warehouseB), f.managerAuth, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.send(t, http.MethodGet, fmt.Sprintf("/api/warehouses/%d", f.warehouseB), f.managerAuth, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = f.send(t, http.MethodDelete, fmt.Sprintf("/api/warehouses/%d", f.warehouseB), f.managerAuth, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Categorias(t *testing.T) {
	f := newAPIFixture(t)

	var cat dto.CategoryResponse
	resp := f.send(t, http.MethodPost, "/api/categories", f.managerAuth, `{"name":" Fragrances ","description":"Perfumes"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &cat)
	assert.Equal(t, "Fragrances", cat.Name)

	resp = f.send(t, http.MethodPost, "/api/categories", f.managerAuth, `{"name":"Fragrances"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp = f.send(t, http.MethodPost, "/api/categories", f.managerAuth, `{"name":"Niños","parent_id":999}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = f.send(t, http.MethodPost, "/api/categories", tokenForRole(t, "cashier"), `{"name":"Otra"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var p dto.ProductResponse
	body := fmt.Sprintf(`{"sku":"PERF-2","name":"Ámbar 50ml","category_id":%d}`, cat.ID)
	resp = f.send(t, http.MethodPost, "/api/products", f.managerAuth, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &p)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, cat.ID, *p.CategoryID)

	resp = f.send(t, http.MethodPost, "/api/products", f.managerAuth, `{"sku":"PERF-3","name":"X","category_id":999}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.send(t, http.MethodPut, fmt.Sprintf("/api/products/%d", f.productID), f.managerAuth,
		fmt.Sprintf(`{"category_id":%d}`, cat.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &p)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, cat.ID, *p.CategoryID)

	var list []dto.CategoryResponse
	resp = f.send(t, http.MethodGet, "/api/categories", tokenForRole(t, "cashier"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Perfumes", list[0].Description)
}

func TestAPI_ProductoDuplicado(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.send(t, http.MethodPost, "/api/products", f.managerAuth, `{"sku":"PERF-1","name":"Otro"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, resp))
}

func TestAPI_Metrics(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.adjustJSON(t, f.warehouseA, "1").StatusCode)

	resp := f.send(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inventario_ledger_operations_total{operation="adjust",outcome="ok"} 1`)
	assert.Contains(t, string(body), `inventario_http_requests_total`)
}
