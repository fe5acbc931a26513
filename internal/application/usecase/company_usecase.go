package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol símbolo cuando la empresa no define uno.
const DefaultCurrencySymbol = "₹"

// CompanyUseCase lectura y guardado de los datos de la empresa con caché de proceso.
// La caché vence tras ttl y se invalida explícitamente en cada guardado.
type CompanyUseCase struct {
	repo    repository.CompanySettingsRepository
	ttl     time.Duration
	log     zerolog.Logger
	now     func() time.Time
	printer *message.Printer

	mu       sync.Mutex
	cached   *entity.CompanySettings
	cachedAt time.Time
}

// NewCompanyUseCase construye el caso de uso. ttl <= 0 desactiva la caché.
func NewCompanyUseCase(repo repository.CompanySettingsRepository, ttl time.Duration, log zerolog.Logger) *CompanyUseCase {
	return &CompanyUseCase{
		repo:    repo,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		printer: message.NewPrinter(language.English),
	}
}

// Get devuelve una copia de los settings. Si la lectura falla se cachean settings vacíos
// hasta el próximo vencimiento.
func (uc *CompanyUseCase) Get(ctx context.Context) entity.CompanySettings {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	now := uc.now()
	if uc.cached != nil && now.Sub(uc.cachedAt) < uc.ttl {
		return *uc.cached
	}
	settings, err := uc.repo.Load(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo leer la configuración de la empresa")
		settings = &entity.CompanySettings{}
	}
	if settings == nil {
		settings = &entity.CompanySettings{}
	}
	uc.cached = settings
	uc.cachedAt = now
	return *settings
}

// Update reemplaza el documento (campos recortados) e invalida la caché.
func (uc *CompanyUseCase) Update(ctx context.Context, in dto.UpdateCompanyRequest) (entity.CompanySettings, error) {
	t := strings.TrimSpace
	settings := &entity.CompanySettings{
		Slug: t(in.Slug), Logo: t(in.Logo), Name: t(in.Name), Phone: t(in.Phone), Email: t(in.Email),
		Address1: t(in.Address1), Address2: t(in.Address2), Landmark: t(in.Landmark), Pincode: t(in.Pincode),
		City: t(in.City), State: t(in.State), Country: t(in.Country), GSTIN: t(in.GSTIN), TaxID: t(in.TaxID),
		CurrencySymbol: t(in.CurrencySymbol), CurrencyCode: strings.ToUpper(t(in.CurrencyCode)),
		Terms: t(in.Terms), BankDetails: t(in.BankDetails),
	}
	if err := uc.repo.Save(ctx, settings); err != nil {
		return entity.CompanySettings{}, err
	}
	uc.Invalidate()
	return *settings, nil
}

// Invalidate descarta la caché; la próxima lectura va al almacenamiento.
func (uc *CompanyUseCase) Invalidate() {
	uc.mu.Lock()
	uc.cached = nil
	uc.mu.Unlock()
}

// CurrencySymbol símbolo configurado o DefaultCurrencySymbol.
func (uc *CompanyUseCase) CurrencySymbol(ctx context.Context) string {
	if s := strings.TrimSpace(uc.Get(ctx).CurrencySymbol); s != "" {
		return s
	}
	return DefaultCurrencySymbol
}

// FormatAmount símbolo seguido del monto con separador de miles y dos decimales, ej: "₹12,345.50".
// El redondeo se hace sobre el decimal; nunca pasa por float64.
func (uc *CompanyUseCase) FormatAmount(amount decimal.Decimal, symbol string) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		intPart = uc.printer.Sprintf("%d", n)
	} else {
		intPart = groupThousands(intPart)
	}
	return symbol + sign + intPart + "." + frac
}

// groupThousands agrupa de a tres dígitos los enteros que no caben en int64.
func groupThousands(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
