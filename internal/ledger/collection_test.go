package ledger

import (
	"testing"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
)

func productIDOf(p models.Product) string { return p.ID }

func TestCollectionKeepsInsertionOrder(t *testing.T) {
	c := newCollection(productIDOf, nil, []models.Product{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}})

	c.put(models.Product{ID: "c", Name: "C"})
	c.put(models.Product{ID: "b", Name: "B2"})
	c.remove("a")

	got := c.values()
	if len(got) != 2 || got[0].ID != "b" || got[0].Name != "B2" || got[1].ID != "c" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base := newCollection(productIDOf, nil, []models.Product{{ID: "a"}})
	clone := base.clone()

	clone.put(models.Product{ID: "b"})
	clone.remove("a")

	if base.len() != 1 {
		t.Fatalf("expected base untouched, got %d items", base.len())
	}
	if _, ok := base.get("a"); !ok {
		t.Fatal("expected a still in base")
	}
}

func TestTxnMarksOnlyWrittenCollectionsDirty(t *testing.T) {
	st, err := decodeState(map[string][]byte{"products": []byte(`[{"id":"p1","name":"Rioja"}]`)})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tx := begin(st)

	tx.products().put(models.Product{ID: "p2", Name: "Cava"})
	_ = tx.next.stocks.values()

	blobs, err := tx.blobs()
	if err != nil {
		t.Fatalf("blobs: %v", err)
	}
	if len(blobs) != 1 {
		t.Fatalf("expected only products dirty, got %d", len(blobs))
	}
	if st.products.len() != 1 {
		t.Fatalf("expected published state untouched, got %d", st.products.len())
	}
}

func TestCollectionCopiesInAndOut(t *testing.T) {
	c := newCollection(func(ps models.ProductStatus) string { return ps.ID }, models.ProductStatus.Clone, nil)
	item := models.ProductStatus{ID: "s1", PreviousReports: []models.PreviousReport{{Notes: "v1"}}}
	c.put(item)

	item.PreviousReports[0].Notes = "after put"
	got, _ := c.get("s1")
	got.PreviousReports[0].Notes = "after get"
	c.values()[0].PreviousReports[0].Notes = "after values"

	stored, _ := c.get("s1")
	if stored.PreviousReports[0].Notes != "v1" {
		t.Fatalf("expected stored history untouched, got %q", stored.PreviousReports[0].Notes)
	}
}
