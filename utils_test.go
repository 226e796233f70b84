package cheetah_test

import (
	"errors"
	"testing"

	"github.com/gopsql/cheetah"
)

func TestToTableName(t *testing.T) {
	cases := [][]string{
		{"Trade", "trades"},
		{"trade", "trades"},
		{"TradeEvent", "tradeevents"},
		{"Quote2", "quote2s"},
		{"Entry", "entrys"},
		{"", ""},
	}
	for i, c := range cases {
		got := cheetah.ToTableName(c[0])
		expected := c[1]
		if got == expected {
			t.Logf("case %d passed", i)
		} else {
			t.Errorf("case %d failed, got %s", i, got)
		}
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"Trade", "trades2", "T"}
	for i, name := range valid {
		if err := cheetah.ValidateName(name); err != nil {
			t.Errorf("case %d failed, got %v", i, err)
		}
	}
	invalid := []string{"54", "1trades", "trades$", "trades2$", "", "my_trade", "trade s"}
	for i, name := range invalid {
		err := cheetah.ValidateName(name)
		var nerr *cheetah.InvalidNameError
		if !errors.As(err, &nerr) || nerr.Name != name {
			t.Errorf("case %d failed, got %v", i, err)
			continue
		}
		if err.Error() != "Invalid model name. Must be alphanumeric and have a letter for the first character: '"+name+"'" {
			t.Errorf("case %d failed, got %s", i, err)
		}
	}
}

func TestToUnderscore(t *testing.T) {
	cases := [][]string{
		{"column", "column"},
		{"Column", "column"},
		{"ColumnName", "column_name"},
		{"TradePrice2", "trade_price2"},
	}
	for i, c := range cases {
		got := cheetah.ToUnderscore(c[0])
		expected := c[1]
		if got == expected {
			t.Logf("case %d passed", i)
		} else {
			t.Errorf("case %d failed, got %s", i, got)
		}
	}
}
