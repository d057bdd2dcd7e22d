package hanamcp

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestListSchemas(t *testing.T) {
	t.Parallel()
	h, mock, counter := newMockEngine(t, Config{})

	mock.ExpectQuery(listSchemasSQL).WillReturnRows(
		sqlmock.NewRows([]string{"SCHEMA_NAME"}).
			AddRow("PUBLIC").
			AddRow("SYS"))

	output, err := h.ListSchemas(context.Background(), ListSchemasInput{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(output.Schemas, []string{"PUBLIC", "SYS"}) {
		t.Fatalf("unexpected schemas: %v", output.Schemas)
	}
	verifyMock(t, mock, counter)
}

func TestListSchemas_EmptyCatalog(t *testing.T) {
	t.Parallel()
	h, mock, counter := newMockEngine(t, Config{})

	mock.ExpectQuery(listSchemasSQL).WillReturnRows(
		sqlmock.NewRows([]string{"SCHEMA_NAME"}))

	output, err := h.ListSchemas(context.Background(), ListSchemasInput{})
	if err != nil {
		t.Fatal(err)
	}
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(jsonBytes) != `{"schemas":[]}` {
		t.Fatalf("empty catalog must serialize with a present schemas key, got: %s", jsonBytes)
	}
	verifyMock(t, mock, counter)
}

func TestListSchemas_QueryErrorReleasesSession(t *testing.T) {
	t.Parallel()
	h, mock, counter := newMockEngine(t, Config{})

	mock.ExpectQuery(listSchemasSQL).WillReturnError(errors.New("insufficient privilege"))

	_, err := h.ListSchemas(context.Background(), ListSchemasInput{})
	if err == nil {
		t.Fatal("expected an error")
	}
	verifyMock(t, mock, counter)
}
