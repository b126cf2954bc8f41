package money

import "testing"

func TestLineTotal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		price    int64
		discount float64
		qty      int
		want     int64
	}{
		{name: "discounted pair", price: 100000, discount: 10, qty: 2, want: 180000},
		{name: "no discount", price: 50000, discount: 0, qty: 1, want: 50000},
		{name: "half unit rounds up", price: 101, discount: 50, qty: 1, want: 51},
		{name: "full discount", price: 75000, discount: 100, qty: 3, want: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := LineTotal(tc.price, tc.discount, tc.qty); got != tc.want {
				t.Fatalf("LineTotal(%d, %v, %d) = %d, want %d", tc.price, tc.discount, tc.qty, got, tc.want)
			}
		})
	}
}

func TestSum(t *testing.T) {
	t.Parallel()

	if got := Sum([]int64{180000, 50000}); got != 230000 {
		t.Fatalf("Sum = %d, want 230000", got)
	}
	if got := Sum(nil); got != 0 {
		t.Fatalf("Sum(nil) = %d, want 0", got)
	}
}
