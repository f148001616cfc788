package db

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestBorrowReturnScenario(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	loan, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 3, Room: "201"})
	if err != nil {
		t.Fatalf("borrow 3: %v", err)
	}
	if got := mustAvailable(t, r, itemID); got != 2 {
		t.Fatalf("available after borrow = %d, want 2", got)
	}

	// 再借 3 超过剩余 2
	if _, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 3}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("second borrow err = %v, want ErrInsufficientStock", err)
	}
	if got := mustAvailable(t, r, itemID); got != 2 {
		t.Fatalf("available unchanged after rejection = %d, want 2", got)
	}

	if _, err := r.ReturnLoan(ctx, loan.ID); err != nil {
		t.Fatalf("return: %v", err)
	}
	if got := mustAvailable(t, r, itemID); got != 5 {
		t.Fatalf("available after return = %d, want 5", got)
	}
}

func TestBorrowValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	for _, qty := range []int{0, -2} {
		if _, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: qty}); !errors.Is(err, ErrInvalidQty) {
			t.Errorf("qty %d: err = %v, want ErrInvalidQty", qty, err)
		}
	}
	if _, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: 9999, LenderID: lenderID, Qty: 1}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("missing item: err = %v, want ErrItemNotFound", err)
	}
	if _, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: 9999, Qty: 1}); !errors.Is(err, ErrLenderNotFound) {
		t.Errorf("missing lender: err = %v, want ErrLenderNotFound", err)
	}
	if got := mustAvailable(t, r, itemID); got != 5 {
		t.Fatalf("available after failed borrows = %d, want 5", got)
	}
}

// 总量 5、8 个并发请求各借 1：必须恰好 5 成功 3 库存不足
func TestConcurrentBorrowAdmission(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	const n = 8
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 1})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, short int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected borrow error: %v", err)
		}
	}
	if ok != 5 || short != 3 {
		t.Fatalf("got %d success / %d insufficient, want 5 / 3", ok, short)
	}
	if got := mustAvailable(t, r, itemID); got != 0 {
		t.Fatalf("available = %d, want 0", got)
	}
}

func TestReturnLoanIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	loan, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 2})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}

	first, err := r.ReturnLoan(ctx, loan.ID)
	if err != nil {
		t.Fatalf("first return: %v", err)
	}
	second, err := r.ReturnLoan(ctx, loan.ID)
	if err != nil {
		t.Fatalf("second return: %v", err)
	}
	if second.ReturnedAt == nil || !second.ReturnedAt.Equal(*first.ReturnedAt) {
		t.Fatalf("second return rewrote the timestamp: %v vs %v", second.ReturnedAt, first.ReturnedAt)
	}
	if got := mustAvailable(t, r, itemID); got != 5 {
		t.Fatalf("available = %d, want 5", got)
	}

	if _, err := r.ReturnLoan(ctx, 9999); !errors.Is(err, ErrLoanNotFound) {
		t.Fatalf("missing loan: err = %v, want ErrLoanNotFound", err)
	}
}

func TestBulkReturn(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	var ids []uint
	for i := 0; i < 2; i++ {
		l, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 2})
		if err != nil {
			t.Fatalf("borrow %d: %v", i, err)
		}
		ids = append(ids, l.ID)
	}
	if got := mustAvailable(t, r, itemID); got != 1 {
		t.Fatalf("available = %d, want 1", got)
	}

	n, err := r.BulkReturnLoans(ctx, ids)
	if err != nil {
		t.Fatalf("bulk return: %v", err)
	}
	if n != 2 {
		t.Fatalf("returned = %d, want 2", n)
	}
	if got := mustAvailable(t, r, itemID); got != 5 {
		t.Fatalf("available = %d, want 5", got)
	}

	// 同一批 id 再来一次：已归还的静默跳过，零变更
	n, err = r.BulkReturnLoans(ctx, ids)
	if err != nil {
		t.Fatalf("second bulk return: %v", err)
	}
	if n != 0 {
		t.Fatalf("second returned = %d, want 0", n)
	}
}

func TestBulkReturnEmptyBatch(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.BulkReturnLoans(context.Background(), nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err = %v, want ErrEmptyBatch", err)
	}
}

func TestBulkReturnSkipsClosedAndUnknown(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	open, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 1})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	closed, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 1})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := r.ReturnLoan(ctx, closed.ID); err != nil {
		t.Fatalf("pre-close: %v", err)
	}

	n, err := r.BulkReturnLoans(ctx, []uint{open.ID, closed.ID, 9999})
	if err != nil {
		t.Fatalf("bulk return: %v", err)
	}
	if n != 1 {
		t.Fatalf("returned = %d, want 1", n)
	}
}

func TestListUnreturnedLoans(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	first, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 1, Room: "201"})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	second, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 2, Room: "202"})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := r.ReturnLoan(ctx, second.ID); err != nil {
		t.Fatalf("return: %v", err)
	}

	rows, err := r.ListUnreturnedLoans(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1", len(rows))
	}
	got := rows[0]
	if got.ID != first.ID || got.ItemName != "drill" || got.LenderName != "Alice" || got.Room != "201" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestSearchLoanHistory(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	itemID := seedItem(t, r, 5)
	lenderID := seedLender(t, r, "Alice")

	open, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 1, Room: "north wing"})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	closed, err := r.CreateLoan(ctx, CreateLoanInput{ItemID: itemID, LenderID: lenderID, Qty: 1, Room: "south wing"})
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := r.ReturnLoan(ctx, closed.ID); err != nil {
		t.Fatalf("return: %v", err)
	}

	// 空检索词 = 全部
	all, err := r.SearchLoanHistory(ctx, "", false)
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d rows, want 2", len(all))
	}

	north, err := r.SearchLoanHistory(ctx, "NORTH", false)
	if err != nil {
		t.Fatalf("search north: %v", err)
	}
	if len(north) != 1 || north[0].ID != open.ID {
		t.Fatalf("room search got %+v", north)
	}

	openOnly, err := r.SearchLoanHistory(ctx, "", true)
	if err != nil {
		t.Fatalf("search open: %v", err)
	}
	if len(openOnly) != 1 || openOnly[0].ID != open.ID {
		t.Fatalf("open-only search got %+v", openOnly)
	}
}
