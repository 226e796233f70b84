package cheetah

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestModel_Permit(t *testing.T) {
	t.Parallel()
	m := MustCompile(context.Background(), "Trade", tradeSchema(t), newMemoryConnection())
	cases := []struct {
		got  []string
		want []string
	}{
		{m.Permit("price", "sym", "venue").PermittedColumns(), []string{"sym", "price"}},
		{m.Permit().PermittedColumns(), []string{}},
		{m.PermitAllExcept("size", "cond").PermittedColumns(), []string{"date", "time", "sym", "price"}},
		{m.PermitAllExcept().PermittedColumns(), []string{"date", "time", "sym", "price", "size", "cond"}},
	}
	for i, c := range cases {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("case %d: got %v, want %v", i, c.got, c.want)
		}
	}
}

func TestModel_Filter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := MustCompile(ctx, "Trade", tradeSchema(t), newMemoryConnection())
	p := m.Permit("date", "sym", "price")

	row := p.Filter(
		map[string]interface{}{"sym": "IBM", "size": 1000},
		`{"sym": "GOOGL", "price": 259.44, "cond": "X", "date": "2017-08-01T00:00:00Z"}`,
		[]byte(`not json`),
	)
	if len(row) != 3 || row["sym"] != "GOOGL" {
		t.Fatalf("got %v", row)
	}
	if _, ok := row["date"].(time.Time); !ok {
		t.Errorf("date = %#v, want a time.Time", row["date"])
	}
	created, err := m.Create(ctx, row)
	if err != nil {
		t.Fatal(err)
	}
	want := EncodedRow{
		"date": "2017.08.01d", "time": "0Nt", "sym": "`GOOGL",
		"price": "259.44e", "size": "10i", "cond": `"N"`,
	}
	if len(created) != 1 || !reflect.DeepEqual(created[0], want) {
		t.Errorf("created %v, want %v", created, want)
	}

	fromStruct := p.Filter(&trade{Sym: "A", Price: 2, Size: 5}, strings.NewReader(`{"price": 3}`))
	if fromStruct["sym"] != "A" || fromStruct["price"].(interface{ String() string }).String() != "3" {
		t.Errorf("got %#v", fromStruct)
	}
	if _, ok := fromStruct["size"]; ok {
		t.Error("size was not filtered")
	}
}

func TestRowOf(t *testing.T) {
	t.Parallel()
	got := RowOf("sym", "GOOGL", Row{"size": 10}, "price", 259.44, "cond")
	want := Row{"sym": "GOOGL", "size": 10, "price": 259.44}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RowOf = %v, want %v", got, want)
	}
	if s := (EncodedRow{"sym": "`GOOGL", "price": "259.44e"}).String(); s != "price:259.44e sym:`GOOGL" {
		t.Errorf("EncodedRow.String() = %q", s)
	}
}
