package service_test

import (
	"context"
	"testing"

	"aquadesk/internal/apierror"
	"aquadesk/internal/model"
	"aquadesk/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalance_Labels(t *testing.T) {
	repo := newStubCustomerRepo()
	ledger := service.NewLedgerService(repo)
	ctx := context.Background()

	receivable := seedCustomer(repo, "Hamid", 350)
	payable := seedCustomer(repo, "Sana", -120)
	clear := seedCustomer(repo, "Omar", 0)

	b, label, err := ledger.GetBalance(ctx, receivable.ID)
	require.NoError(t, err)
	assert.Equal(t, "350", b.String())
	assert.Equal(t, model.BalanceReceivable, label)

	b, label, err = ledger.GetBalance(ctx, payable.ID)
	require.NoError(t, err)
	assert.Equal(t, "-120", b.String())
	assert.Equal(t, model.BalancePayable, label)

	_, label, err = ledger.GetBalance(ctx, clear.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BalanceClear, label)
}

func TestGetBalance_NotFound(t *testing.T) {
	ledger := service.NewLedgerService(newStubCustomerRepo())
	_, _, err := ledger.GetBalance(context.Background(), uuid.New())
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
}

func TestSnapshot_SplitsBySign(t *testing.T) {
	repo := newStubCustomerRepo()
	ledger := service.NewLedgerService(repo)

	seedCustomer(repo, "A", 500)
	seedCustomer(repo, "B", 250)
	seedCustomer(repo, "C", -100)
	seedCustomer(repo, "D", 0)

	receivable, payable, err := ledger.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "750", receivable.String())
	assert.Equal(t, "100", payable.String())
}
