package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/importer"
	"github.com/xinwork/repair-order-api/internal/metrics"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
	"go.uber.org/zap"
)

// ImportEntity names a bulk-importable entity, as used in URLs
type ImportEntity string

const (
	ImportMaterials ImportEntity = "materials"
	ImportWorkItems ImportEntity = "work-items"
	ImportTasks     ImportEntity = "tasks"
	ImportUsers     ImportEntity = "users"
)

// ImportEntities lists every importable entity
var ImportEntities = []ImportEntity{ImportMaterials, ImportWorkItems, ImportTasks, ImportUsers}

// ParseImportEntity validates an entity name
func ParseImportEntity(s string) (ImportEntity, error) {
	for _, e := range ImportEntities {
		if string(e) == strings.ToLower(strings.TrimSpace(s)) {
			return e, nil
		}
	}
	return "", apierrors.NewValidation("unknown import entity %q", s)
}

// ImportResult is returned after a committed batch
type ImportResult struct {
	Imported int         `json:"imported"`
	Items    interface{} `json:"items"`
}

type materialRow struct {
	Code        string          `csv:"code" validate:"required,max=50"`
	Name        string          `csv:"name" validate:"required,max=100"`
	Unit        string          `csv:"unit" validate:"required,max=20"`
	UnitPrice   decimal.Decimal `csv:"unit_price" validate:"gt=0"`
	Category    string          `csv:"category" validate:"max=50"`
	Description string          `csv:"description"`
	SupplyType  string          `csv:"supply_type"`
}

type workItemRow struct {
	ProjectNumber      string          `csv:"project_number" validate:"required,max=20"`
	Name               string          `csv:"name" validate:"required,max=100"`
	Unit               string          `csv:"unit" validate:"required,max=20"`
	UnitPrice          decimal.Decimal `csv:"unit_price" validate:"gte=0"`
	Category           string          `csv:"category"`
	Description        string          `csv:"description"`
	SkilledLaborDays   decimal.Decimal `csv:"skilled_labor_days" validate:"gte=0"`
	UnskilledLaborDays decimal.Decimal `csv:"unskilled_labor_days" validate:"gte=0"`
}

type taskRow struct {
	Title               string  `csv:"title" validate:"required,max=200"`
	Description         string  `csv:"description"`
	ProjectID           *uint64 `csv:"project_id"`
	TeamID              *uint64 `csv:"team_id"`
	AssignedToID        *uint64 `csv:"assigned_to_id"`
	Attachment          string  `csv:"attachment"`
	WorkList            string  `csv:"work_list"`
	CompanyMaterialList string  `csv:"company_material_list"`
	SelfMaterialList    string  `csv:"self_material_list"`
}

type userRow struct {
	Username string `csv:"username" validate:"required,max=50"`
	Email    string `csv:"email" validate:"required,email"`
	Password string `csv:"password" validate:"required,min=6"`
	FullName string `csv:"full_name" validate:"max=100"`
	Phone    string `csv:"phone" validate:"max=30"`
	Role     string `csv:"role"`
}

// ImportService runs the bulk importer for each entity inside one transaction per batch
type ImportService struct {
	repos   *repository.Repositories
	imp     *importer.Importer
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewImportService creates a new ImportService. m may be nil.
func NewImportService(repos *repository.Repositories, log *zap.Logger, m *metrics.Metrics) *ImportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportService{
		repos:   repos,
		imp:     importer.New(log),
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Import decodes raw as the given entity and commits every row, or none.
// User imports are restricted to admins.
func (s *ImportService) Import(ctx context.Context, actor Actor, entity ImportEntity, raw []byte, format importer.Format) (*ImportResult, error) {
	if entity == ImportUsers && !actor.IsAdmin() {
		return nil, apierrors.NewForbidden("only admins can import users")
	}

	var (
		result *ImportResult
		err    error
	)
	switch entity {
	case ImportMaterials:
		result, err = runImport(ctx, s, raw, format, s.materialShape, func(tx *repository.Repositories, m *models.Material) error {
			return tx.Materials.Create(m)
		})
	case ImportWorkItems:
		result, err = runImport(ctx, s, raw, format, s.workItemShape, func(tx *repository.Repositories, w *models.WorkItem) error {
			return tx.WorkItems.Create(w)
		})
	case ImportTasks:
		shape := func(tx *repository.Repositories) importer.Shape[models.Task] {
			return s.taskShape(tx, actor)
		}
		result, err = runImport(ctx, s, raw, format, shape, func(tx *repository.Repositories, t *models.Task) error {
			return tx.Tasks.Create(t)
		})
	case ImportUsers:
		result, err = runImport(ctx, s, raw, format, s.userShape, func(tx *repository.Repositories, u *models.User) error {
			return tx.Users.Create(u)
		})
	default:
		return nil, apierrors.NewValidation("unknown import entity %q", entity)
	}

	rows := 0
	if result != nil {
		rows = result.Imported
	}
	s.metrics.ObserveImport(string(entity), rows, err)
	if err != nil {
		return nil, err
	}

	s.log.Info("import committed", zap.String("entity", string(entity)), zap.Int("rows", rows), zap.Uint64("actor_id", actor.ID))
	return result, nil
}

// Columns returns the template header of an entity
func (s *ImportService) Columns(entity ImportEntity) ([]string, error) {
	switch entity {
	case ImportMaterials:
		return s.materialShape(s.repos).Columns(), nil
	case ImportWorkItems:
		return s.workItemShape(s.repos).Columns(), nil
	case ImportTasks:
		return s.taskShape(s.repos, Actor{}).Columns(), nil
	case ImportUsers:
		return s.userShape(s.repos).Columns(), nil
	}
	return nil, apierrors.NewValidation("unknown import entity %q", entity)
}

// Template writes a header-only import file for entity
func (s *ImportService) Template(w io.Writer, entity ImportEntity, format importer.Format) error {
	columns, err := s.Columns(entity)
	if err != nil {
		return err
	}
	return importer.WriteTemplate(w, format, columns)
}

// runImport decodes every row inside a transaction and inserts them in file order.
// A unique index violation at insert time is reported as a validation error.
func runImport[T any](
	ctx context.Context,
	s *ImportService,
	raw []byte,
	format importer.Format,
	shape func(tx *repository.Repositories) importer.Shape[T],
	persist func(tx *repository.Repositories, item *T) error,
) (*ImportResult, error) {
	var items []T
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		sh := shape(tx)
		decoded, err := importer.Run(s.imp, raw, format, sh)
		if err != nil {
			return err
		}

		for i := range decoded {
			if err := persist(tx, &decoded[i]); err != nil {
				if isUniqueViolation(err) {
					return apierrors.NewValidation("item %d of %s conflicts with an existing row", i+1, sh.Name)
				}
				return fmt.Errorf("failed to insert %s: %w", sh.Name, err)
			}
		}
		items = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ImportResult{Imported: len(items), Items: items}, nil
}

func (s *ImportService) materialShape(tx *repository.Repositories) importer.Shape[models.Material] {
	return importer.Shape[models.Material]{
		Name:            string(ImportMaterials),
		RequiredColumns: []string{"code", "name", "unit", "unit_price"},
		OptionalColumns: []string{"category", "description", "supply_type"},
		Validate:        importer.UniqueColumn("code"),
		Transform: func(row importer.Row) (models.Material, error) {
			var r materialRow
			if err := s.imp.Decode(row, &r); err != nil {
				return models.Material{}, err
			}

			supplyType := models.SupplyTypeBoth
			if r.SupplyType != "" {
				parsed, err := models.ParseSupplyType(r.SupplyType)
				if err != nil {
					return models.Material{}, apierrors.NewValidation("%s", err.Error())
				}
				supplyType = parsed
			}

			if err := checkMaterialCode(tx, r.Code); err != nil {
				return models.Material{}, err
			}

			m, err := newMaterial(MaterialInput{
				Category:    r.Category,
				Code:        r.Code,
				Name:        r.Name,
				Description: r.Description,
				Unit:        r.Unit,
				UnitPrice:   r.UnitPrice,
				SupplyType:  supplyType,
			})
			if err != nil {
				return models.Material{}, err
			}
			return *m, nil
		},
	}
}

func (s *ImportService) workItemShape(tx *repository.Repositories) importer.Shape[models.WorkItem] {
	return importer.Shape[models.WorkItem]{
		Name:            string(ImportWorkItems),
		RequiredColumns: []string{"project_number", "name", "unit", "unit_price"},
		OptionalColumns: []string{"category", "description", "skilled_labor_days", "unskilled_labor_days"},
		Validate:        importer.UniqueColumn("project_number"),
		Transform: func(row importer.Row) (models.WorkItem, error) {
			var r workItemRow
			if err := s.imp.Decode(row, &r); err != nil {
				return models.WorkItem{}, err
			}

			var category models.WorkItemCategory
			if r.Category != "" {
				parsed, err := models.ParseWorkItemCategory(r.Category)
				if err != nil {
					return models.WorkItem{}, apierrors.NewValidation("%s", err.Error())
				}
				category = parsed
			}

			if err := checkProjectNumber(tx, r.ProjectNumber); err != nil {
				return models.WorkItem{}, err
			}

			w, err := newWorkItem(WorkItemInput{
				Category:           category,
				ProjectNumber:      r.ProjectNumber,
				Name:               r.Name,
				Description:        r.Description,
				Unit:               r.Unit,
				SkilledLaborDays:   r.SkilledLaborDays,
				UnskilledLaborDays: r.UnskilledLaborDays,
				UnitPrice:          r.UnitPrice,
			})
			if err != nil {
				return models.WorkItem{}, err
			}
			return *w, nil
		},
	}
}

func (s *ImportService) taskShape(tx *repository.Repositories, actor Actor) importer.Shape[models.Task] {
	return importer.Shape[models.Task]{
		Name:            string(ImportTasks),
		RequiredColumns: []string{"title"},
		OptionalColumns: []string{
			"description", "project_id", "team_id", "assigned_to_id",
			"attachment", "work_list", "company_material_list", "self_material_list",
		},
		Transform: func(row importer.Row) (models.Task, error) {
			var r taskRow
			if err := s.imp.Decode(row, &r); err != nil {
				return models.Task{}, err
			}
			if err := checkTaskReferences(tx, r.ProjectID, r.TeamID, r.AssignedToID); err != nil {
				return models.Task{}, err
			}

			task := newTask(CreateTaskInput{
				Title:               r.Title,
				Description:         r.Description,
				Attachment:          r.Attachment,
				WorkList:            r.WorkList,
				CompanyMaterialList: r.CompanyMaterialList,
				SelfMaterialList:    r.SelfMaterialList,
				ProjectID:           r.ProjectID,
				AssignedToID:        r.AssignedToID,
				TeamID:              r.TeamID,
				CreatorID:           actor.ID,
			}, s.now())
			// the assignee is recorded but the task waits for an explicit transition
			task.Status = models.TaskStatusPending
			task.AssignedAt = nil
			return *task, nil
		},
	}
}

func (s *ImportService) userShape(tx *repository.Repositories) importer.Shape[models.User] {
	return importer.Shape[models.User]{
		Name:            string(ImportUsers),
		RequiredColumns: []string{"username", "email", "password"},
		OptionalColumns: []string{"full_name", "phone", "role"},
		Validate:        importer.All(importer.UniqueColumn("username"), importer.UniqueColumn("email")),
		Transform: func(row importer.Row) (models.User, error) {
			var r userRow
			if err := s.imp.Decode(row, &r); err != nil {
				return models.User{}, err
			}

			var role models.Role
			if r.Role != "" {
				parsed, err := models.ParseRole(r.Role)
				if err != nil {
					return models.User{}, apierrors.NewValidation("%s", err.Error())
				}
				role = parsed
			}

			if err := ensureUsernameFree(tx, r.Username); err != nil {
				return models.User{}, err
			}
			if err := ensureEmailFree(tx, r.Email); err != nil {
				return models.User{}, err
			}

			u, err := newUser(CreateUserInput{
				Username: r.Username,
				Email:    r.Email,
				Password: r.Password,
				FullName: r.FullName,
				Phone:    r.Phone,
				Role:     role,
			})
			if err != nil {
				return models.User{}, err
			}
			return *u, nil
		},
	}
}
