package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"smart_home_catalog/internal/models"
)

func TestUserRepository_Create(t *testing.T) {
	insert := regexp.QuoteMeta(insertUserSQL)

	cases := []struct {
		name    string
		expect  func(sqlmock.Sqlmock)
		wantID  int
		wantErr error
		errText string
	}{
		{
			name: "new homeowner",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("homeowner", "$2a$hash").
					WillReturnResult(sqlmock.NewResult(3, 1))
			},
			wantID: 3,
		},
		{
			name: "username already registered",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("homeowner", "$2a$hash").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrAlreadyExists,
		},
		{
			name: "database locked",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("homeowner", "$2a$hash").
					WillReturnError(errors.New("database is locked"))
			},
			errText: "insert user",
		},
		{
			name: "driver cannot count rows",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("homeowner", "$2a$hash").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("unsupported")))
			},
			errText: "rows affected",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tc.expect(mock)

			id, err := NewUserRepository(db).Create("homeowner", "$2a$hash")
			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
			case tc.errText != "":
				if err == nil || !strings.Contains(err.Error(), tc.errText) {
					t.Fatalf("err = %v, want it to mention %q", err, tc.errText)
				}
			default:
				if err != nil {
					t.Fatalf("Create: %v", err)
				}
			}
			if id != tc.wantID {
				t.Fatalf("id = %d, want %d", id, tc.wantID)
			}
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	query := regexp.QuoteMeta(selectUserByUsernameSQL)

	t.Run("registered user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs("installer").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(11, "installer", "$2a$hash"))

		u, err := NewUserRepository(db).GetByUsername("installer")
		if err != nil {
			t.Fatalf("GetByUsername: %v", err)
		}
		want := models.User{ID: 11, Username: "installer", PasswordHash: "$2a$hash"}
		if u == nil || *u != want {
			t.Fatalf("user = %+v, want %+v", u, want)
		}
	})

	t.Run("unknown user is nil without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs("guest").WillReturnError(sql.ErrNoRows)

		u, err := NewUserRepository(db).GetByUsername("guest")
		if err != nil || u != nil {
			t.Fatalf("got %+v, %v; want nil, nil", u, err)
		}
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs("installer").WillReturnError(errors.New("disk I/O error"))

		u, err := NewUserRepository(db).GetByUsername("installer")
		if err == nil || !strings.Contains(err.Error(), "select user") {
			t.Fatalf("err = %v, want select user failure", err)
		}
		if u != nil {
			t.Fatalf("user = %+v, want nil on error", u)
		}
	})
}
