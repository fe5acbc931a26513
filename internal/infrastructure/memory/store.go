// Package memory implementa los puertos de repositorio en memoria, con transacciones
// y bloqueos por posición equivalentes a los de PostgreSQL (SELECT FOR UPDATE).
// Se usa en tests y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Op identifica una operación en la que se puede inyectar una falla.
type Op string

// Operaciones con inyección de fallas.
const (
	OpBegin          Op = "begin"
	OpCommit         Op = "commit"
	OpPositionUpdate Op = "position.update"
	OpMovementCreate Op = "movement.create"
)

// ErrInjected falla por defecto devuelta por SetFault cuando err es nil.
var ErrInjected = errors.New("falla inyectada")

// Store estado en memoria. Las lecturas fuera de transacción ven solo datos confirmados.
type Store struct {
	mu         sync.RWMutex
	products   map[int64]entity.Product
	warehouses map[int64]entity.Warehouse
	units      map[int64]entity.Unit
	categories map[int64]entity.Category
	positions  map[entity.PositionKey]entity.StockPosition
	movements  []entity.StockMovement

	productSeq   atomic.Int64
	warehouseSeq atomic.Int64
	unitSeq      atomic.Int64
	categorySeq  atomic.Int64
	movementSeq  atomic.Int64

	locksMu sync.Mutex
	locks   map[entity.PositionKey]chan struct{}

	faultsMu sync.Mutex
	faults   map[Op]error
}

var _ inventory.TxRunner = (*Store)(nil)

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   map[int64]entity.Product{},
		warehouses: map[int64]entity.Warehouse{},
		units:      map[int64]entity.Unit{},
		categories: map[int64]entity.Category{},
		positions:  map[entity.PositionKey]entity.StockPosition{},
		locks:      map[entity.PositionKey]chan struct{}{},
		faults:     map[Op]error{},
	}
}

// SetFault hace que op falle con err (ErrInjected si err es nil) hasta ClearFaults.
func (s *Store) SetFault(op Op, err error) {
	if err == nil {
		err = ErrInjected
	}
	s.faultsMu.Lock()
	s.faults[op] = err
	s.faultsMu.Unlock()
}

// ClearFaults elimina todas las fallas inyectadas.
func (s *Store) ClearFaults() {
	s.faultsMu.Lock()
	s.faults = map[Op]error{}
	s.faultsMu.Unlock()
}

func (s *Store) fault(op Op) error {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	return s.faults[op]
}

// Movements copia del log de movimientos confirmados, en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.StockMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

// lock adquiere el bloqueo de la posición; respeta la cancelación del contexto.
func (s *Store) lock(ctx context.Context, key entity.PositionKey) error {
	s.locksMu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.locksMu.Unlock()
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock(key entity.PositionKey) {
	s.locksMu.Lock()
	ch := s.locks[key]
	s.locksMu.Unlock()
	<-ch
}

// Run ejecuta fn dentro de una transacción en memoria. Las escrituras de stock quedan
// pendientes hasta el commit; cualquier error descarta todo y libera los bloqueos.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := s.fault(OpBegin); err != nil {
		return err
	}
	tx := &memTx{
		store:     s,
		ctx:       ctx,
		held:      map[entity.PositionKey]bool{},
		positions: map[entity.PositionKey]entity.StockPosition{},
	}
	defer tx.release()

	if err := fn(tx.repos()); err != nil {
		return err
	}
	if err := s.fault(OpCommit); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// Repos repositorios fuera de transacción (autocommit).
func (s *Store) Repos() inventory.TxRepos {
	return inventory.TxRepos{
		Products:   &ProductRepository{store: s},
		Warehouses: &WarehouseRepository{store: s},
		Positions:  &PositionRepository{store: s},
		Movements:  &MovementRepository{store: s},
	}
}

// Units repositorio de unidades.
func (s *Store) Units() *UnitRepository { return &UnitRepository{store: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{store: s} }

// Reports repositorio de reportes.
func (s *Store) Reports() *ReportRepository { return &ReportRepository{store: s} }

var (
	errNoTx      = errors.New("memory: GetForUpdate requiere una transacción")
	errNotLocked = errors.New("memory: la posición no está bloqueada por la transacción")
)

// SeedDefaults carga los mismos datos base que las migraciones 002_seed.sql y 003_categories.sql
// (unidades ea/ml, la bodega MAIN y la categoría Fragrances). Es idempotente.
func (s *Store) SeedDefaults(ctx context.Context) error {
	for _, u := range []entity.Unit{{Name: "Each", Symbol: "ea"}, {Name: "Milliliter", Symbol: "ml", Precision: 2}} {
		if err := s.Units().Create(ctx, &u); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
	}
	wh := &entity.Warehouse{Code: "MAIN", Name: "Main Warehouse", IsActive: true}
	if err := s.Repos().Warehouses.Create(ctx, wh); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	cat := &entity.Category{Name: "Fragrances", Description: "Fragrance and perfume catalog"}
	if err := s.Categories().Create(ctx, cat); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	return nil
}
