package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/bank-products/internal/app/form"
	"github.com/mrops-br/bank-products/internal/domain"
)

func formValues(id string) form.Values {
	return form.FromProduct(buildProduct(id))
}

func TestFormViewModel_Defaults(t *testing.T) {
	vm := NewFormViewModel(newFakeService(), testTelemetry())

	s := vm.State()
	assert.Equal(t, SubmitCreate, s.Mode)
	assert.False(t, vm.IsEditMode())
	assert.False(t, vm.IsSubmitLoading())
	assert.Empty(t, vm.SubmitError())
	assert.False(t, s.HasSubmitSuccess())
	assert.Empty(t, vm.SubmitSuccessMessage())

	v := vm.FormValues()
	assert.Empty(t, v.ID)
	assert.Empty(t, v.Name)
	assert.Contains(t, v.Logo, "visa-signature")
	assert.Nil(t, v.DateRelease)
	assert.Nil(t, v.DateRevision)
}

func TestFormState_DerivedByMode(t *testing.T) {
	s := FormState{Mode: SubmitUpdate}
	s.Update = LoadState[domain.Product]{Loading: true, Err: "update error"}
	s.Create = LoadState[domain.Product]{Err: "create error"}

	assert.True(t, s.IsEditMode())
	assert.True(t, s.IsSubmitLoading())
	assert.Equal(t, "update error", s.SubmitError())

	s.Mode = SubmitCreate
	assert.False(t, s.IsSubmitLoading())
	assert.Equal(t, "create error", s.SubmitError())

	s.Update = s.Update.Succeed(buildProduct("x"))
	assert.Contains(t, s.SubmitSuccessMessage(), "actualizado")

	s.Create = s.Create.Succeed(buildProduct("x"))
	assert.Equal(t, MsgProductCreated, s.SubmitSuccessMessage())

	assert.Equal(t, "update", SubmitUpdate.String())
	assert.Equal(t, "create", SubmitCreate.String())
}

func TestFormViewModel_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("without id keeps create mode and clears product", func(t *testing.T) {
		svc := newFakeService()
		svc.getFn = func(context.Context, string) (*domain.Product, error) {
			p := buildProduct("bank-1")
			return &p, nil
		}
		vm := NewFormViewModel(svc, testTelemetry())
		vm.Initialize(ctx, "bank-1")
		require.True(t, vm.State().Product.HasValue)

		vm.Initialize(ctx, "")

		s := vm.State()
		assert.Equal(t, SubmitCreate, s.Mode)
		assert.False(t, s.Product.HasValue)
		assert.Empty(t, s.Product.Err)
		assert.Equal(t, 1, svc.called("get"))
	})

	t.Run("with id loads product in update mode", func(t *testing.T) {
		svc := newFakeService()
		var gotID string
		svc.getFn = func(_ context.Context, id string) (*domain.Product, error) {
			gotID = id
			p := buildProduct("bank-1")
			return &p, nil
		}
		vm := NewFormViewModel(svc, testTelemetry())

		vm.Initialize(ctx, "bank-1")

		s := vm.State()
		assert.Equal(t, "bank-1", gotID)
		assert.True(t, vm.IsEditMode())
		assert.False(t, s.Product.Loading)
		assert.Empty(t, s.Product.Err)
		assert.Equal(t, buildProduct("bank-1"), s.Product.Value)
	})
}

func TestFormViewModel_LoadProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("form values carry dates", func(t *testing.T) {
		svc := newFakeService()
		svc.getFn = func(context.Context, string) (*domain.Product, error) {
			p := buildProduct("bank-1")
			return &p, nil
		}
		vm := NewFormViewModel(svc, testTelemetry())

		vm.LoadProduct(ctx, "bank-1")

		v := vm.FormValues()
		assert.Equal(t, "bank-1", v.ID)
		require.NotNil(t, v.DateRelease)
		require.NotNil(t, v.DateRevision)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *v.DateRelease)
		assert.Equal(t, time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), *v.DateRevision)

		*v.DateRelease = v.DateRelease.AddDate(3, 0, 0)
		assert.Equal(t, 2026, vm.FormValues().DateRelease.Year())
	})

	t.Run("absent product is not found", func(t *testing.T) {
		vm := NewFormViewModel(newFakeService(), testTelemetry())

		vm.LoadProduct(ctx, "missing")

		s := vm.State()
		assert.False(t, s.Product.Loading)
		assert.False(t, s.Product.HasValue)
		assert.Equal(t, MsgProductNotFound, s.Product.Err)
	})

	t.Run("not found error", func(t *testing.T) {
		svc := newFakeService()
		svc.getFn = func(context.Context, string) (*domain.Product, error) {
			return nil, fmt.Errorf("get: %w", domain.ErrProductNotFound)
		}
		vm := NewFormViewModel(svc, testTelemetry())

		vm.LoadProduct(ctx, "missing")
		assert.Equal(t, MsgProductNotFound, vm.State().Product.Err)
	})

	t.Run("other failures keep their message", func(t *testing.T) {
		svc := newFakeService()
		svc.getFn = func(context.Context, string) (*domain.Product, error) {
			return nil, errors.New("boom")
		}
		vm := NewFormViewModel(svc, testTelemetry())

		vm.LoadProduct(ctx, "bank-1")

		s := vm.State()
		assert.Equal(t, "boom", s.Product.Err)
		assert.False(t, s.Product.Loading)
	})
}

func TestFormViewModel_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("create flow", func(t *testing.T) {
		svc := newFakeService()
		vm := NewFormViewModel(svc, testTelemetry())

		var mu sync.Mutex
		var loading []bool
		unsubscribe := vm.Subscribe(func(s FormState) {
			mu.Lock()
			defer mu.Unlock()
			loading = append(loading, s.IsSubmitLoading())
		})
		defer unsubscribe()

		assert.False(t, vm.IsSubmitLoading())
		ok := vm.Submit(ctx, formValues("x"))
		require.True(t, ok)

		s := vm.State()
		assert.Equal(t, 1, svc.called("create"))
		assert.Equal(t, 0, svc.called("update"))
		assert.Equal(t, "x", s.Create.Value.ID)
		assert.True(t, s.Update.Idle())
		assert.Equal(t, MsgProductCreated, vm.SubmitSuccessMessage())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []bool{true, false}, loading)
	})

	t.Run("create failure is recorded", func(t *testing.T) {
		svc := newFakeService()
		svc.createFn = func(context.Context, domain.Product) (*domain.Product, error) {
			return nil, errors.New("create failed")
		}
		vm := NewFormViewModel(svc, testTelemetry())

		ok := vm.Submit(ctx, formValues("x"))

		assert.False(t, ok)
		assert.Contains(t, vm.SubmitError(), "create failed")
		assert.False(t, vm.IsSubmitLoading())
		assert.Empty(t, vm.SubmitSuccessMessage())
	})

	t.Run("update targets the loaded id", func(t *testing.T) {
		svc := newFakeService()
		svc.getFn = func(context.Context, string) (*domain.Product, error) {
			p := buildProduct("bank-1")
			return &p, nil
		}
		vm := NewFormViewModel(svc, testTelemetry())
		vm.Initialize(ctx, "bank-1")

		values := formValues("bank-1")
		values.ID = "ignored-id"
		values.Name = "Nombre Editado"
		ok := vm.Submit(ctx, values)

		require.True(t, ok)
		assert.Equal(t, "bank-1", svc.lastUpdateID)
		assert.Equal(t, "bank-1", svc.lastProduct.ID)
		assert.Equal(t, "Nombre Editado", vm.State().Update.Value.Name)
		assert.True(t, vm.State().Create.Idle())
		assert.Equal(t, MsgProductUpdated, vm.SubmitSuccessMessage())
	})

	t.Run("update without loaded product uses form id", func(t *testing.T) {
		svc := newFakeService()
		svc.getFn = func(context.Context, string) (*domain.Product, error) {
			return nil, errors.New("down")
		}
		vm := NewFormViewModel(svc, testTelemetry())
		vm.Initialize(ctx, "bank-1")

		ok := vm.Submit(ctx, formValues("form-id"))

		require.True(t, ok)
		assert.Equal(t, "form-id", svc.lastUpdateID)
	})

	t.Run("update failure is recorded in update state", func(t *testing.T) {
		svc := newFakeService()
		svc.updateFn = func(context.Context, string, domain.Product) (*domain.Product, error) {
			return nil, errors.New("update failed")
		}
		vm := NewFormViewModel(svc, testTelemetry())

		ok := vm.Update(ctx, "bank-1", buildProduct("bank-1"))

		assert.False(t, ok)
		assert.Contains(t, vm.State().Update.Err, "update failed")
		assert.Empty(t, vm.SubmitError(), "create mode exposes the create state")
	})
}

func TestFormViewModel_VerifyIDAvailable(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		exists bool
		err    error
		want   bool
	}{
		{"free id", false, nil, true},
		{"taken id", true, nil, false},
		{"check failure fails open", true, errors.New("network down"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newFakeService()
			svc.existsFn = func(context.Context, string) (bool, error) { return tc.exists, tc.err }
			vm := NewFormViewModel(svc, testTelemetry())

			assert.Equal(t, tc.want, vm.VerifyIDAvailable(ctx, "bank-1"))
		})
	}
}

func TestFormViewModel_ConsumeAndReset(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService()
	svc.getFn = func(context.Context, string) (*domain.Product, error) {
		p := buildProduct("bank-1")
		return &p, nil
	}
	vm := NewFormViewModel(svc, testTelemetry())

	vm.Create(ctx, buildProduct("new-1"))
	vm.Update(ctx, "bank-1", buildProduct("bank-1"))
	require.Equal(t, MsgProductCreated, vm.SubmitSuccessMessage())

	vm.ConsumeSubmitResult()
	assert.False(t, vm.State().HasSubmitSuccess())
	assert.Empty(t, vm.SubmitSuccessMessage())
	vm.ConsumeSubmitResult()
	assert.False(t, vm.State().HasSubmitSuccess())

	vm.Initialize(ctx, "bank-1")
	vm.Create(ctx, buildProduct("new-2"))
	vm.Reset()

	s := vm.State()
	assert.True(t, s.Product.Idle())
	assert.True(t, s.Create.Idle())
	assert.True(t, s.Update.Idle())
	assert.Equal(t, SubmitUpdate, s.Mode)
}
