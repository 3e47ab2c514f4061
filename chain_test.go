package reqheaders

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseChainValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "single entry",
			value: "1.1.1.1",
			want:  []string{"1.1.1.1"},
		},
		{
			name:  "multiple entries",
			value: "142.251.46.206, 20.112.52.29",
			want:  []string{"142.251.46.206", "20.112.52.29"},
		},
		{
			name:  "whitespace trimmed",
			value: "  1.1.1.1  ,  8.8.8.8  ",
			want:  []string{"1.1.1.1", "8.8.8.8"},
		},
		{
			name:  "empty segments ignored",
			value: "1.1.1.1, , 8.8.8.8",
			want:  []string{"1.1.1.1", "8.8.8.8"},
		},
		{
			name:  "empty value",
			value: "",
			want:  nil,
		},
		{
			name:  "comma only",
			value: ",",
			want:  nil,
		},
		{
			name:  "commas and whitespace only",
			value: " , ,\t,",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			introspector, err := New()
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			got, err := introspector.parseChainValue(tt.value, "x_forwarded_for")
			if err != nil {
				t.Fatalf("parseChainValue() error = %v, want nil", err)
			}

			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseChainValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseChainValue_MaxChainLength(t *testing.T) {
	introspector, err := New(MaxChainLength(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = introspector.parseChainValue("1.1.1.1, 2.2.2.2, 3.3.3.3, 4.4.4.4", "x_forwarded_for")

	if !errors.Is(err, ErrChainTooLong) {
		t.Fatalf("parseChainValue() error = %v, want ErrChainTooLong", err)
	}

	var chainErr *ChainTooLongError
	if !errors.As(err, &chainErr) {
		t.Fatalf("parseChainValue() error type = %T, want *ChainTooLongError", err)
	}
	if chainErr.MaxLength != 3 {
		t.Errorf("ChainTooLongError.MaxLength = %d, want 3", chainErr.MaxLength)
	}
}

func TestChain(t *testing.T) {
	introspector, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		bag  HeaderBag
		want []string
	}{
		{
			name: "absent header yields empty chain",
			bag:  NewHeaderBag(map[string]string{}),
			want: nil,
		},
		{
			name: "empty header yields empty chain",
			bag:  NewHeaderBag(map[string]string{"x-forwarded-for": ""}),
			want: nil,
		},
		{
			name: "full chain in wire order",
			bag:  NewHeaderBag(map[string]string{"x-forwarded-for": "142.251.46.206, 20.112.52.29, 10.0.0.1"}),
			want: []string{"142.251.46.206", "20.112.52.29", "10.0.0.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := introspector.Chain(tt.bag)
			if err != nil {
				t.Fatalf("Chain() error = %v, want nil", err)
			}

			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chain() = %v, want %v", got, tt.want)
			}
		})
	}
}
