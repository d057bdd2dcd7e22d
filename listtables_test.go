package hanamcp

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestListTables_UppercasesAndBindsSchema(t *testing.T) {
	t.Parallel()
	h, mock, counter := newMockEngine(t, Config{})

	mock.ExpectQuery(listTablesSQL).WithArgs("SALES").WillReturnRows(
		sqlmock.NewRows([]string{"TABLE_NAME"}).
			AddRow("CUSTOMERS").
			AddRow("ORDERS"))

	output, err := h.ListTables(context.Background(), ListTablesInput{Schema: "sales"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(output.Tables, []string{"CUSTOMERS", "ORDERS"}) {
		t.Fatalf("unexpected tables: %v", output.Tables)
	}
	verifyMock(t, mock, counter)
}

func TestListTables_EmptySchemaRejected(t *testing.T) {
	t.Parallel()
	h, mock, counter := newMockEngine(t, Config{})

	_, err := h.ListTables(context.Background(), ListTablesInput{})
	if err == nil {
		t.Fatal("expected an error for an empty schema name")
	}
	// No session must have been acquired.
	verifyMock(t, mock, counter)
}

func TestListTables_UnknownSchemaYieldsEmptyList(t *testing.T) {
	t.Parallel()
	h, mock, counter := newMockEngine(t, Config{})

	mock.ExpectQuery(listTablesSQL).WithArgs("NOSUCH").WillReturnRows(
		sqlmock.NewRows([]string{"TABLE_NAME"}))

	output, err := h.ListTables(context.Background(), ListTablesInput{Schema: "NOSUCH"})
	if err != nil {
		t.Fatal(err)
	}
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(jsonBytes) != `{"tables":[]}` {
		t.Fatalf("unknown schema must serialize with a present tables key, got: %s", jsonBytes)
	}
	verifyMock(t, mock, counter)
}

func TestListTables_QueryErrorReleasesSession(t *testing.T) {
	t.Parallel()
	h, mock, counter := newMockEngine(t, Config{})

	mock.ExpectQuery(listTablesSQL).WithArgs("SALES").WillReturnError(
		errors.New("insufficient privilege"))

	_, err := h.ListTables(context.Background(), ListTablesInput{Schema: "SALES"})
	if err == nil {
		t.Fatal("expected an error")
	}
	verifyMock(t, mock, counter)
}
