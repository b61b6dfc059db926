package repository

import (
	"errors"
	"regexp"
	"testing"

	"smart_home_catalog/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCatalogPutSensorType_ExistingRowLeftAlone(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewCatalogSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(putSensorTypeSQL)).
		WithArgs("T1", "Temperature", "C").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.PutSensorType(ctx(t), models.SensorType{ID: "T1", Description: "Temperature", Unit: "C"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCatalogPutActuatorModel_Error(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewCatalogSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(putActuatorModelSQL)).
		WithArgs("SW1", "AT1").
		WillReturnError(errors.New("locked"))

	err := repo.PutActuatorModel(ctx(t), models.ActuatorModel{ID: "SW1", TypeID: "AT1"})
	if err == nil || errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestCatalogListSensorTypes_NullUnit(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewCatalogSQLite(db)

	rows := sqlmock.NewRows([]string{"id", "description", "unit"}).
		AddRow("PC", "Power Consumption", "W").
		AddRow("PR", "Presence", nil)
	mock.ExpectQuery(regexp.QuoteMeta(listSensorTypesSQL)).WillReturnRows(rows)

	got, err := repo.ListSensorTypes(ctx(t))
	if err != nil {
		t.Fatalf("ListSensorTypes: %v", err)
	}
	if len(got) != 2 || got[0].Unit != "W" || got[1].Unit != "" {
		t.Fatalf("unexpected types: %+v", got)
	}
}

func TestCatalogListActuatorModels(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewCatalogSQLite(db)

	rows := sqlmock.NewRows([]string{"id", "type_id"}).
		AddRow("BLIND-1", "AT-BLIND").
		AddRow("SW-1", "AT-SWITCH")
	mock.ExpectQuery(regexp.QuoteMeta(listActuatorModelsSQL)).WillReturnRows(rows)

	got, err := repo.ListActuatorModels(ctx(t))
	if err != nil {
		t.Fatalf("ListActuatorModels: %v", err)
	}
	if len(got) != 2 || got[1].TypeID != "AT-SWITCH" {
		t.Fatalf("unexpected models: %+v", got)
	}
}
