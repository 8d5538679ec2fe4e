package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BruksfildServices01/findcut/internal/api"
	"github.com/BruksfildServices01/findcut/internal/app"
	domain "github.com/BruksfildServices01/findcut/internal/domain/booking"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/timezone"
	"github.com/BruksfildServices01/findcut/internal/usecase/booking"
	"github.com/BruksfildServices01/findcut/internal/validators"
)

var errUsage = errors.New("uso inválido")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app.App, args []string, out io.Writer) error
}

var commands = []command{
	{"login", "entra na conta", cmdLogin},
	{"register", "cria uma conta e entra", cmdRegister},
	{"logout", "encerra a sessão", cmdLogout},
	{"whoami", "mostra o usuário logado", cmdWhoami},
	{"shops", "lista barbearias", cmdShops},
	{"shop", "mostra uma barbearia", cmdShop},
	{"my-shop", "mostra a barbearia do usuário", cmdMyShop},
	{"create-shop", "cadastra a barbearia do proprietário", cmdCreateShop},
	{"update-shop", "altera dados da barbearia", cmdUpdateShop},
	{"invite", "gera convite para barbeiros", cmdInvite},
	{"services", "lista serviços do catálogo", cmdServices},
	{"add-service", "cadastra um serviço", cmdAddService},
	{"update-service", "altera um serviço", cmdUpdateService},
	{"delete-service", "remove um serviço", cmdDeleteService},
	{"book", "agenda um serviço", cmdBook},
	{"bookings", "lista seus agendamentos", cmdBookings},
	{"booking-status", "confirma ou cancela um agendamento", cmdBookingStatus},
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(out)
		return nil
	}

	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, a, args[1:], out)
		}
	}

	usage(out)
	return fmt.Errorf("comando desconhecido: %s", args[0])
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "uso: findcut <comando> [opções]")
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.summary)
	}
	tw.Flush()
}

func newFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// visited devolve os nomes das flags passadas explicitamente.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// userError devolve o texto para o usuário, priorizando o erro do container.
func userError(stateErr string, err error, fallback string) error {
	if stateErr != "" {
		return errors.New(stateErr)
	}
	return errors.New(httperr.MessageOf(err, fallback))
}

// ======================================================
// SESSÃO
// ======================================================

func cmdLogin(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("login", out)
	email := fs.String("email", "", "e-mail")
	password := fs.String("password", "", "senha")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := a.Auth.Login(ctx, strings.TrimSpace(*email), *password); err != nil {
		return userError(a.Auth.Snapshot().Error, err, "")
	}

	user := a.Auth.Snapshot().User
	fmt.Fprintf(out, "Bem-vindo, %s!\n", user.Name)
	return nil
}

func cmdRegister(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("register", out)
	name := fs.String("name", "", "nome")
	email := fs.String("email", "", "e-mail")
	password := fs.String("password", "", "senha")
	confirm := fs.String("confirm", "", "confirmação da senha")
	role := fs.String("role", string(models.RoleClient), "perfil: CLIENT, BARBER ou OWNER")
	shopID := fs.String("shop", "", "barbearia (obrigatório para BARBER)")
	checkDomain := fs.Bool("check-domain", false, "confere se o domínio do e-mail existe")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	form := validators.RegistrationForm{
		Name:            *name,
		Email:           strings.TrimSpace(*email),
		Password:        *password,
		ConfirmPassword: *confirm,
		Role:            models.Role(strings.ToUpper(*role)),
		BarberShopID:    *shopID,
	}
	if err := validators.ValidateRegistration(form); err != nil {
		return errors.New(httperr.MessageOf(err, ""))
	}
	if *checkDomain && !validators.IsEmailDomainValid(ctx, nil, form.Email) {
		return errors.New("O domínio do e-mail informado não parece ser válido.")
	}

	err := a.Auth.Register(ctx, api.RegisterPayload{
		Name:         strings.TrimSpace(form.Name),
		Email:        form.Email,
		Password:     form.Password,
		Role:         form.Role,
		BarberShopID: form.BarberShopID,
	})
	if err != nil {
		return userError(a.Auth.Snapshot().Error, err, "")
	}

	fmt.Fprintf(out, "Conta criada. Bem-vindo, %s!\n", a.Auth.Snapshot().User.Name)
	return nil
}

func cmdLogout(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	if err := a.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Sessão encerrada.")
	return nil
}

func cmdWhoami(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	auth := a.Auth.Snapshot()
	if !auth.Authenticated() || auth.User == nil {
		fmt.Fprintln(out, "Você não está logado.")
		return nil
	}
	u := auth.User
	fmt.Fprintf(out, "%s <%s> (%s)\n", u.Name, u.Email, u.Role.Label())
	return nil
}

// ======================================================
// BARBEARIAS
// ======================================================

func cmdShops(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("shops", out)
	region := fs.String("region", "", "filtra por nome ou endereço")
	page := fs.Int("page", 1, "página")
	limit := fs.Int("limit", 9, "itens por página")
	order := fs.String("order", api.OrderByCreatedAt, "name, distance ou createdAt")
	lat := fs.Float64("lat", 0, "latitude (ordenação por distância)")
	lng := fs.Float64("lng", 0, "longitude (ordenação por distância)")
	radius := fs.Float64("radius", 0, "raio em km")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	set := visited(fs)
	params := api.ListBarbershopsParams{
		Page:    api.Int(*page),
		Limit:   api.Int(*limit),
		OrderBy: api.String(*order),
	}
	if set["region"] {
		params.Region = api.String(*region)
	}
	if set["lat"] {
		params.Latitude = api.Float(*lat)
	}
	if set["lng"] {
		params.Longitude = api.Float(*lng)
	}
	if set["radius"] {
		params.Radius = api.Float(*radius)
	}

	if err := a.Barbershops.FetchBarbershops(ctx, params); err != nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}

	st := a.Barbershops.Snapshot()
	if len(st.Barbershops) == 0 {
		fmt.Fprintln(out, "Nenhuma barbearia encontrada.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tENDEREÇO\tDISTÂNCIA")
	for _, s := range st.Barbershops {
		dist := "-"
		if s.Distance != nil {
			dist = fmt.Sprintf("%.1f km", *s.Distance)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Address, dist)
	}
	tw.Flush()
	fmt.Fprintf(out, "Página %d de %d (%d no total)\n", st.Page(), st.TotalPages(), st.Total)
	return nil
}

func cmdShop(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "uso: findcut shop <id>")
		return errUsage
	}

	shop, err := a.Barbershops.FetchBarbershop(ctx, args[0])
	if err != nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}
	printShop(out, shop, false)
	return nil
}

func cmdMyShop(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	shop, err := a.Barbershops.FetchMyBarbershop(ctx)
	if err != nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}
	if shop == nil {
		fmt.Fprintln(out, "Você ainda não tem uma barbearia.")
		return nil
	}
	printShop(out, shop, true)
	return nil
}

func cmdCreateShop(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("create-shop", out)
	name := fs.String("name", "", "nome")
	address := fs.String("address", "", "endereço")
	phone := fs.String("phone", "", "telefone")
	description := fs.String("description", "", "descrição")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := validators.ValidateBarbershop(*name, *address); err != nil {
		return errors.New(httperr.MessageOf(err, ""))
	}

	set := visited(fs)
	payload := api.BarbershopPayload{
		Name:        strings.TrimSpace(*name),
		Address:     strings.TrimSpace(*address),
		Phone:       *phone,
		Description: *description,
	}
	if set["lat"] && set["lng"] {
		payload.Latitude = api.Float(*lat)
		payload.Longitude = api.Float(*lng)
	}

	shop, err := a.Barbershops.AddBarbershop(ctx, payload)
	if err != nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}
	fmt.Fprintf(out, "Barbearia %q criada (id %s).\n", shop.Name, shop.ID)
	return nil
}

func cmdUpdateShop(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("update-shop", out)
	id := fs.String("id", "", "barbearia (padrão: a sua)")
	name := fs.String("name", "", "nome")
	address := fs.String("address", "", "endereço")
	phone := fs.String("phone", "", "telefone")
	description := fs.String("description", "", "descrição")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	shopID, err := resolveShopID(ctx, a, *id)
	if err != nil {
		return err
	}

	set := visited(fs)
	var patch api.BarbershopPatch
	if set["name"] {
		patch.Name = api.String(*name)
	}
	if set["address"] {
		patch.Address = api.String(*address)
	}
	if set["phone"] {
		patch.Phone = api.String(*phone)
	}
	if set["description"] {
		patch.Description = api.String(*description)
	}
	if set["lat"] {
		patch.Latitude = api.Float(*lat)
	}
	if set["lng"] {
		patch.Longitude = api.Float(*lng)
	}

	shop, err := a.Barbershops.UpdateBarbershop(ctx, shopID, patch)
	if err != nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}
	fmt.Fprintf(out, "Barbearia %q atualizada.\n", shop.Name)
	return nil
}

func cmdInvite(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("invite", out)
	id := fs.String("shop", "", "barbearia (padrão: a sua)")
	days := fs.Int("days", 7, "dias de validade")
	expires := fs.String("expires", "", "validade exata (RFC3339); tem prioridade sobre -days")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	shopID, err := resolveShopID(ctx, a, *id)
	if err != nil {
		return err
	}

	payload := api.InvitePayload{DaysValid: *days}
	if *expires != "" {
		at, err := time.Parse(time.RFC3339, *expires)
		if err != nil {
			return errors.New("Data de validade inválida.")
		}
		payload = api.InvitePayload{ExpiresAt: &at}
	}

	inv, err := a.Barbershops.CreateInvite(ctx, shopID, payload)
	if err != nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}

	loc := timezone.Location(a.Config.Timezone)
	fmt.Fprintf(out, "Convite %s válido até %s.\n", inv.Code, inv.ExpiresAt.In(loc).Format("02/01/2006 15:04"))
	return nil
}

// ======================================================
// SERVIÇOS
// ======================================================

func cmdServices(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("services", out)
	shopID := fs.String("shop", "", "barbearia (padrão: todas)")
	mine := fs.Bool("mine", false, "só os serviços da sua barbearia")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	id := *shopID
	if *mine {
		resolved, err := resolveShopID(ctx, a, id)
		if err != nil {
			return err
		}
		id = resolved
	}

	list, err := a.Client.ListServices(ctx, id)
	if err != nil {
		return userError("", err, "Não foi possível carregar os serviços.")
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "Nenhum serviço encontrado.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBARBEARIA\tSERVIÇO\tPREÇO\tDURAÇÃO")
	for _, svc := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", svc.ID, svc.BarbershopID, svc.Name, formatPrice(svc.Price), formatDuration(svc.Duration))
	}
	return tw.Flush()
}

func cmdAddService(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("add-service", out)
	id := fs.String("shop", "", "barbearia (padrão: a sua)")
	name := fs.String("name", "", "nome")
	price := fs.Float64("price", 0, "preço em reais")
	duration := fs.Int("duration", 0, "duração em minutos")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := validators.ValidateService(*name); err != nil {
		return errors.New(httperr.MessageOf(err, ""))
	}

	shopID, err := resolveShopID(ctx, a, *id)
	if err != nil {
		return err
	}

	set := visited(fs)
	payload := api.ServicePayload{BarbershopID: shopID, Name: strings.TrimSpace(*name)}
	if set["price"] {
		payload.Price = api.Float(*price)
	}
	if set["duration"] {
		payload.Duration = api.Int(*duration)
	}

	svc, err := a.Barbershops.AddService(ctx, payload)
	if err != nil && svc == nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}
	fmt.Fprintf(out, "Serviço %q cadastrado (id %s).\n", svc.Name, svc.ID)
	return nil
}

func cmdUpdateService(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("update-service", out)
	id := fs.String("id", "", "serviço")
	name := fs.String("name", "", "nome")
	price := fs.Float64("price", 0, "preço em reais")
	duration := fs.Int("duration", 0, "duração em minutos")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *id == "" {
		fmt.Fprintln(out, "uso: findcut update-service -id <serviço> [-name] [-price] [-duration]")
		return errUsage
	}

	set := visited(fs)
	var patch api.ServicePatch
	if set["name"] {
		if err := validators.ValidateService(*name); err != nil {
			return errors.New(httperr.MessageOf(err, ""))
		}
		patch.Name = api.String(strings.TrimSpace(*name))
	}
	if set["price"] {
		patch.Price = api.Float(*price)
	}
	if set["duration"] {
		patch.Duration = api.Int(*duration)
	}

	svc, err := a.Barbershops.UpdateService(ctx, *id, patch)
	if err != nil && svc == nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}
	fmt.Fprintf(out, "Serviço %q atualizado.\n", svc.Name)
	return nil
}

func cmdDeleteService(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("delete-service", out)
	id := fs.String("id", "", "serviço")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *id == "" {
		fmt.Fprintln(out, "uso: findcut delete-service -id <serviço>")
		return errUsage
	}

	if err := a.Barbershops.DeleteService(ctx, *id); err != nil {
		if msg := a.Barbershops.Snapshot().Error; msg != "" {
			return errors.New(msg)
		}
	}
	fmt.Fprintln(out, "Serviço removido.")
	return nil
}

// ======================================================
// AGENDAMENTOS
// ======================================================

func cmdBook(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("book", out)
	shopID := fs.String("shop", "", "barbearia")
	serviceID := fs.String("service", "", "serviço")
	barberID := fs.String("barber", "", "barbeiro (padrão: o primeiro disponível na lista)")
	at := fs.String("at", "", "data e hora local, ex.: 2030-05-10T14:00 (padrão: próxima hora cheia)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *shopID == "" || *serviceID == "" {
		fmt.Fprintln(out, "uso: findcut book -shop <barbearia> -service <serviço> [-barber] [-at]")
		return errUsage
	}

	shop, err := a.Barbershops.FetchBarbershop(ctx, *shopID)
	if err != nil {
		return userError(a.Barbershops.Snapshot().Error, err, "")
	}
	svc, ok := shop.FindService(*serviceID)
	if !ok {
		return errors.New("Serviço não encontrado nesta barbearia.")
	}

	wf := a.Booking
	requireAuth := func() {
		fmt.Fprintln(out, "Faça login com: findcut login -email <e-mail> -password <senha>")
	}
	if err := wf.Open(ctx, booking.NewTarget(*shop, *svc), requireAuth); err != nil {
		return errors.New(httperr.MessageOf(err, ""))
	}
	defer wf.Close()

	if len(wf.View().Barbers) == 0 {
		return errors.New("Nenhum barbeiro disponível para este serviço.")
	}
	if *barberID != "" {
		if err := wf.SelectBarber(ctx, *barberID); err != nil {
			return errors.New(httperr.MessageOf(err, ""))
		}
	}
	if *at != "" {
		if err := wf.SetScheduledAt(ctx, *at); err != nil {
			return errors.New(httperr.MessageOf(err, ""))
		}
	}

	created, err := wf.Submit(ctx)
	if err != nil {
		if msg := wf.View().Error; msg != "" {
			return errors.New(msg)
		}
		return errors.New(httperr.MessageOf(err, ""))
	}

	loc := timezone.Location(a.Config.Timezone)
	fmt.Fprintf(out, "Agendamento criado: %s em %s, %s (%s).\n",
		svc.Name, shop.Name, created.Date.In(loc).Format("02/01/2006 15:04"),
		domain.StatusLabel(created.Status))
	return nil
}

func cmdBookings(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	if err := a.Bookings.FetchBookings(ctx); err != nil {
		return userError(a.Bookings.Snapshot().Error, err, "")
	}

	list := a.Bookings.Snapshot().Bookings
	if len(list) == 0 {
		fmt.Fprintln(out, "Você ainda não tem agendamentos.")
		return nil
	}

	loc := timezone.Location(a.Config.Timezone)
	upcoming, past := domain.Partition(list, time.Now())

	printDays(out, "Próximos", upcoming, loc, false)
	printDays(out, "Anteriores", past, loc, true)
	return nil
}

func cmdBookingStatus(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlags("booking-status", out)
	id := fs.String("id", "", "agendamento")
	status := fs.String("status", "", "CONFIRMED ou CANCELED")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	next, ok := domain.ParseStatus(*status)
	if *id == "" || !ok {
		fmt.Fprintln(out, "uso: findcut booking-status -id <agendamento> -status CONFIRMED|CANCELED")
		return errUsage
	}

	// Carrega a lista para barrar transições inválidas antes da chamada.
	_ = a.Bookings.FetchBookings(ctx)

	updated, err := a.Bookings.UpdateStatus(ctx, *id, next)
	if err != nil && updated == nil {
		return userError(a.Bookings.Snapshot().Error, err, "")
	}
	fmt.Fprintf(out, "Agendamento %s: %s.\n", updated.ID, domain.StatusLabel(updated.Status))
	return nil
}

// ======================================================
// SAÍDA
// ======================================================

func resolveShopID(ctx context.Context, a *app.App, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	shop, err := a.Barbershops.FetchMyBarbershop(ctx)
	if err != nil {
		return "", userError(a.Barbershops.Snapshot().Error, err, "")
	}
	if shop == nil {
		return "", errors.New("Você ainda não tem uma barbearia.")
	}
	return shop.ID, nil
}

func printShop(out io.Writer, shop *models.Barbershop, withInvites bool) {
	fmt.Fprintf(out, "%s (id %s)\n", shop.Name, shop.ID)
	fmt.Fprintf(out, "  %s\n", shop.Address)
	if shop.Phone != "" {
		fmt.Fprintf(out, "  Tel.: %s\n", shop.Phone)
	}
	if shop.Description != "" {
		fmt.Fprintf(out, "  %s\n", shop.Description)
	}

	fmt.Fprintln(out, "Serviços:")
	if len(shop.Services) == 0 {
		fmt.Fprintln(out, "  nenhum serviço cadastrado")
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, s := range shop.Services {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", s.ID, s.Name, formatPrice(s.Price), formatDuration(s.Duration))
	}
	tw.Flush()

	if !withInvites {
		return
	}
	fmt.Fprintln(out, "Convites:")
	now := time.Now()
	for _, inv := range shop.Invites {
		state := "ativo"
		if inv.ExpiredAt(now) {
			state = "expirado"
		}
		fmt.Fprintf(out, "  %s (%s, até %s)\n", inv.Code, state, inv.ExpiresAt.Format("02/01/2006"))
	}
}

func printDays(out io.Writer, title string, list []models.Booking, loc *time.Location, newestFirst bool) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)

	days := domain.GroupByDay(list, loc)
	if newestFirst {
		sort.SliceStable(days, func(i, j int) bool { return days[i].Key > days[j].Key })
	}

	for _, d := range days {
		fmt.Fprintf(out, "  %s\n", d.Key)
		for _, b := range d.Bookings {
			name := b.ServiceID
			if b.Service != nil {
				name = b.Service.Name
			}
			shop := b.BarbershopID
			if b.Barbershop != nil {
				shop = b.Barbershop.Name
			}
			fmt.Fprintf(out, "    %s  %s @ %s  [%s]  #%s\n",
				b.Date.In(loc).Format("15:04"), name, shop, domain.StatusLabel(b.Status), b.ID)
		}
	}
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return strings.Replace(fmt.Sprintf("R$ %.2f", *p), ".", ",", 1)
}

func formatDuration(d *int) string {
	if d == nil || *d == 0 {
		return "-"
	}
	return fmt.Sprintf("%d min", *d)
}
