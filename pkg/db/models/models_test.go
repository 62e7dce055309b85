package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func TestUserPreservesUnknownFields(t *testing.T) {
	raw := `{"id":"u1","username":"ana","role":"staff","password":"hash","email":"ana@shop.test","isActive":false}`

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.ID != "u1" || u.Role != enums.RoleStaff {
		t.Fatalf("unexpected user %+v", u)
	}
	if v, ok := u.Extra("password"); !ok || string(v) != `"hash"` {
		t.Fatalf("expected password preserved, got %s", v)
	}

	u.IsActive = true
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if back["email"] != "ana@shop.test" || back["password"] != "hash" {
		t.Fatalf("extras lost: %s", out)
	}
	if back["isActive"] != true {
		t.Fatalf("known field not written: %s", out)
	}
}

func TestMoneyEncodesAsNumber(t *testing.T) {
	out, err := json.Marshal(Stock{ID: "s1", Price: decimal.RequireFromString("10.50")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"price":10.5`) {
		t.Fatalf("expected numeric price, got %s", out)
	}

	var tx Transaction
	if err := json.Unmarshal([]byte(`{"id":"t1","price":"2.5","totalPrice":5}`), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !tx.TotalPrice.Equal(decimal.NewFromInt(5)) || !tx.Price.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected prices %s %s", tx.Price, tx.TotalPrice)
	}
	if tx.IsReturn() {
		t.Fatal("untyped transaction should count as a sale")
	}
}

func TestReturnRequestRefundDefaultsToZero(t *testing.T) {
	if !(ReturnRequest{}).Refund().IsZero() {
		t.Fatal("expected zero refund")
	}
}

func TestCloneDetachesNestedFields(t *testing.T) {
	at := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	minutes := 30
	refund := decimal.NewFromInt(5)

	ps := ProductStatus{ReviewedAt: &at, EditedAt: &at, PreviousReports: []PreviousReport{{Notes: "first"}}}
	psCopy := ps.Clone()
	psCopy.PreviousReports[0].Notes = "changed"
	*psCopy.ReviewedAt = at.Add(time.Hour)
	if ps.PreviousReports[0].Notes != "first" || !ps.ReviewedAt.Equal(at) {
		t.Fatalf("product status clone shares state: %+v", ps)
	}

	rr := ReturnRequest{RefundAmount: &refund, ReviewedAt: &at}
	rrCopy := rr.Clone()
	*rrCopy.RefundAmount = decimal.NewFromInt(99)
	if !rr.RefundAmount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("return request clone shares refund: %s", rr.RefundAmount)
	}

	ar := AttendanceRecord{TimeOut: &at, Duration: &minutes}
	arCopy := ar.Clone()
	*arCopy.Duration = 1
	if *ar.Duration != 30 {
		t.Fatalf("attendance clone shares duration: %d", *ar.Duration)
	}

	u := User{ID: "u1", LastTimeIn: &at}
	uCopy := u.Clone()
	*uCopy.LastTimeIn = at.Add(time.Hour)
	if !u.LastTimeIn.Equal(at) {
		t.Fatalf("user clone shares lastTimeIn: %s", u.LastTimeIn)
	}
}
