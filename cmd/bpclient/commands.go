package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/mrops-br/bank-products/internal/app/dto"
	"github.com/mrops-br/bank-products/internal/app/form"
	"github.com/mrops-br/bank-products/internal/app/viewmodel"
	"github.com/mrops-br/bank-products/internal/domain"
	"github.com/mrops-br/bank-products/internal/pkg/clock"
)

// productService is everything the three view models need.
type productService interface {
	viewmodel.ProductLister
	viewmodel.FormService
	viewmodel.DetailService
}

type app struct {
	svc      productService
	tel      viewmodel.Telemetry
	clock    clock.Clock
	debounce time.Duration
	out      io.Writer
	errOut   io.Writer
}

var (
	errUsage   = errors.New("invalid usage")
	errInvalid = errors.New("invalid product")
)

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		err = a.list(ctx, rest)
	case "show":
		err = a.show(ctx, rest)
	case "create":
		err = a.create(ctx, rest)
	case "update":
		err = a.update(ctx, rest)
	case "delete":
		err = a.delete(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, errInvalid):
		return 1
	default:
		fmt.Fprintln(a.errOut, err)
		return 1
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// singleID extracts the one positional id, allowing flags after it.
func (a *app) singleID(fs *flag.FlagSet, args []string) (string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(a.errOut, "%s: missing product id\n", fs.Name())
		return "", errUsage
	}
	id := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(a.errOut, "%s: unexpected arguments %v\n", fs.Name(), fs.Args())
		return "", errUsage
	}
	return id, nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	query := fs.String("q", "", "filter by name, id or description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	vm := viewmodel.NewListViewModel(a.svc, a.clock, a.debounce, a.tel)
	defer vm.Close()

	vm.Initialize(ctx)
	if s := vm.State(); s.Products.HasError() {
		return errors.New(s.Products.Err)
	}

	if strings.TrimSpace(*query) != "" {
		if err := a.search(ctx, vm, *query); err != nil {
			return err
		}
	}

	products := vm.FilteredProducts()
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No se encontraron productos")
		return nil
	}
	writeTable(a.out, products)
	return nil
}

// search types query into the view model and waits for the debounced filter.
func (a *app) search(ctx context.Context, vm *viewmodel.ListViewModel, query string) error {
	applied := make(chan struct{})
	var once sync.Once
	unsubscribe := vm.Subscribe(func(s viewmodel.ListState) {
		if s.Search.Debounced == query {
			once.Do(func() { close(applied) })
		}
	})
	defer unsubscribe()

	vm.SetSearchQuery(query)

	select {
	case <-applied:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := a.flagSet("show")
	id, err := a.singleID(fs, args)
	if err != nil {
		return err
	}

	vm := viewmodel.NewDetailViewModel(a.svc, a.tel)
	vm.Initialize(ctx, id)

	s := vm.State()
	if !s.IsLoaded() {
		return errors.New(s.Product.Err)
	}
	writeDetail(a.out, s.Product.Value)
	return nil
}

// productFlags binds the editable form fields to fs.
type productFlags struct {
	id, name, description, logo, release *string
}

func bindProductFlags(fs *flag.FlagSet, withID bool) productFlags {
	pf := productFlags{
		name:        fs.String("name", "", "product name (5-100 characters)"),
		description: fs.String("description", "", "product description (10-200 characters)"),
		logo:        fs.String("logo", "", "logo URL"),
		release:     fs.String("release", "", "release date, YYYY-MM-DD"),
	}
	if withID {
		pf.id = fs.String("id", "", "product id (3-10 characters)")
	}
	return pf
}

// apply copies the flags that were set on the command line into the form.
func (pf productFlags) apply(fs *flag.FlagSet, c *form.Controller) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "id":
			err = c.SetText(form.FieldID, *pf.id)
		case "name":
			err = c.SetText(form.FieldName, *pf.name)
		case "description":
			err = c.SetText(form.FieldDescription, *pf.description)
		case "logo":
			err = c.SetText(form.FieldLogo, *pf.logo)
		case "release":
			release := dto.ParseDate(*pf.release)
			if release.IsZero() {
				c.SetReleaseDate(nil)
				return
			}
			c.SetReleaseDate(&release)
		}
	})
	return err
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := a.flagSet("create")
	pf := bindProductFlags(fs, true)
	if err := fs.Parse(args); err != nil {
		return err
	}

	vm := viewmodel.NewFormViewModel(a.svc, a.tel)
	vm.Initialize(ctx, "")

	c := form.NewController(vm.FormValues())
	if err := pf.apply(fs, c); err != nil {
		return err
	}

	values := c.Values()
	if err := a.validate(values); err != nil {
		return err
	}
	if !vm.VerifyIDAvailable(ctx, strings.TrimSpace(values.ID)) {
		return errors.New(form.MsgIDTaken)
	}

	return a.submit(ctx, vm, values)
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := a.flagSet("update")
	pf := bindProductFlags(fs, false)
	id, err := a.singleID(fs, args)
	if err != nil {
		return err
	}

	vm := viewmodel.NewFormViewModel(a.svc, a.tel)
	vm.Initialize(ctx, id)
	if s := vm.State(); !s.Product.HasValue {
		return errors.New(s.Product.Err)
	}

	c := form.NewController(vm.FormValues())
	if err := pf.apply(fs, c); err != nil {
		return err
	}

	values := c.Values()
	if err := a.validate(values); err != nil {
		return err
	}
	return a.submit(ctx, vm, values)
}

// validate prints every failing field. Flag dates parse as UTC midnight, so
// today's local calendar date is compared in UTC too.
func (a *app) validate(values form.Values) error {
	y, m, d := a.clock.Now().Date()
	errs := form.Validate(values, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	if errs.Valid() {
		return nil
	}
	for _, field := range []form.Field{
		form.FieldID, form.FieldName, form.FieldDescription,
		form.FieldLogo, form.FieldDateRelease, form.FieldDateRevision,
	} {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(a.errOut, "%s: %s\n", field, msg)
		}
	}
	return errInvalid
}

func (a *app) submit(ctx context.Context, vm *viewmodel.FormViewModel, values form.Values) error {
	if !vm.Submit(ctx, values) {
		return errors.New(vm.SubmitError())
	}
	fmt.Fprintln(a.out, vm.SubmitSuccessMessage())
	vm.ConsumeSubmitResult()
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id, err := a.singleID(fs, args)
	if err != nil {
		return err
	}

	vm := viewmodel.NewDetailViewModel(a.svc, a.tel)
	if !vm.Delete(ctx, id) {
		return errors.New(vm.State().Delete.Err)
	}
	vm.ConsumeDeleteResult()
	fmt.Fprintf(a.out, "Producto %s eliminado\n", id)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dto.DateLayout)
}

func writeTable(w io.Writer, products []domain.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tDESCRIPCION\tLIBERACION\tREVISION")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Description, formatDate(p.DateRelease), formatDate(p.DateRevision))
	}
	_ = tw.Flush()
}

func writeDetail(w io.Writer, p domain.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Nombre:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Descripción:\t%s\n", p.Description)
	fmt.Fprintf(tw, "Logo:\t%s\n", p.Logo)
	fmt.Fprintf(tw, "Fecha liberación:\t%s\n", formatDate(p.DateRelease))
	fmt.Fprintf(tw, "Fecha revisión:\t%s\n", formatDate(p.DateRevision))
	_ = tw.Flush()
}
