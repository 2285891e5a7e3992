package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foodieshq/foodies-client/api"
	"github.com/foodieshq/foodies-client/auth"
	"github.com/foodieshq/foodies-client/chat"
	"github.com/foodieshq/foodies-client/feed"
	"github.com/foodieshq/foodies-client/internal/config"
	"github.com/foodieshq/foodies-client/notify"
	"github.com/foodieshq/foodies-client/realtime"
	"github.com/foodieshq/foodies-client/session"
	"github.com/foodieshq/foodies-client/session/boltstore"
	"github.com/foodieshq/foodies-client/validation"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("foodies")
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.New()
	if len(args) == 0 {
		displayAppname(cfg.GetAppName())
		usage()
		return nil
	}

	if err := os.MkdirAll(cfg.GetDataFolder(), 0o700); err != nil {
		return fmt.Errorf("create data folder: %w", err)
	}
	repo, err := boltstore.Open(cfg.GetDataFolder(), cfg.GetSealPassphrase())
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}
	store := session.NewStore(repo)
	defer store.Close()

	nav := auth.NavigatorFunc(func() {
		fmt.Println("Session expired. Please sign in again.")
	})
	refresher := auth.NewRefresher(cfg.GetAPIBaseURL(), store, nav)
	client := api.New(cfg.GetAPIBaseURL(), store, refresher, api.WithTimeout(cfg.GetRequestTimeout()))

	app := &app{cfg: cfg, store: store, client: client}
	return app.dispatch(context.Background(), args[0], args[1:])
}

type app struct {
	cfg    config.Config
	store  *session.Store
	client *api.Client
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "signin":
		return a.signIn(ctx, args)
	case "signup":
		return a.signUp(ctx, args)
	case "verify":
		return a.verify(ctx, args)
	case "resend":
		return printResult(a.client.ResendOTP(ctx))
	case "forgot":
		if len(args) != 1 {
			return errors.New("usage: foodies forgot <email>")
		}
		return printResult(a.client.ForgotPassword(ctx, args[0]))
	case "reset":
		return a.reset(ctx, args)
	case "logout":
		return printResult(a.client.Logout(ctx))
	case "recipes":
		return a.recipes(ctx, args)
	case "browse":
		return a.browse(ctx, args)
	case "mine":
		return a.myRecipes(ctx, args, false)
	case "favorites":
		return a.myRecipes(ctx, args, true)
	case "recipe":
		return a.recipe(ctx, args)
	case "rate":
		return a.rate(ctx, args)
	case "save", "unsave":
		return a.toggleSaved(ctx, command, args)
	case "follow", "unfollow":
		return a.follow(ctx, command, args)
	case "profiles":
		return a.profiles(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "me":
		return a.me(ctx)
	case "update":
		return a.update(ctx, args)
	case "chat":
		return a.chat(ctx, args)
	case "send":
		return a.send(ctx, args)
	case "listen":
		return a.listen(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) signIn(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: foodies signin <email> <password>")
	}
	failed := validation.ValidateAll(map[validation.Field]string{
		validation.FieldEmail:    args[0],
		validation.FieldPassword: args[1],
	}, validation.Form{})
	if err := firstError(failed); err != nil {
		return err
	}
	res := a.client.SignIn(ctx, args[0], args[1])
	if res.Success {
		fmt.Println("Signed in.")
		if exp, err := a.store.TokenExpiry(); err == nil {
			fmt.Printf("Access token expires at %s\n", exp.Format("15:04:05"))
		}
		return nil
	}
	return printResult(res)
}

func (a *app) signUp(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: foodies signup <name> <email> <password>")
	}
	failed := validation.ValidateAll(map[validation.Field]string{
		validation.FieldName:     args[0],
		validation.FieldEmail:    args[1],
		validation.FieldPassword: args[2],
	}, validation.Form{})
	if err := firstError(failed); err != nil {
		return err
	}
	res := a.client.SignUp(ctx, args[0], args[1], args[2])
	if res.Success {
		fmt.Println("Check your email for the verification code, then run: foodies verify <otp>")
		return nil
	}
	return printResult(res)
}

func (a *app) verify(ctx context.Context, args []string) error {
	if len(args) != 1 || len(args[0]) != 6 {
		return errors.New("usage: foodies verify <6-digit otp>")
	}
	return printResult(a.client.VerifyOTP(ctx, args[0]))
}

func (a *app) reset(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: foodies reset <password> <txnId>")
	}
	if msg := validation.Validate(validation.FieldPassword, args[0], validation.Form{}); msg != "" {
		return errors.New(msg)
	}
	return printResult(a.client.ConfirmPasswordReset(ctx, args[0], args[1]))
}

func (a *app) recipes(ctx context.Context, args []string) error {
	filters := api.ListFilters{Page: 1}
	if len(args) > 0 {
		filters.SearchKey = strings.Join(args, " ")
	}
	page, res := a.client.Recipes(ctx, filters)
	if !res.Success {
		return printResult(res)
	}
	printRecipes(page)
	return nil
}

// browse walks the whole feed page by page, accumulating as an
// infinite-scroll view would.
func (a *app) browse(ctx context.Context, args []string) error {
	pager := feed.NewPager[api.Recipe]()
	pager.SetFilters(strings.Join(args, " "), "", "", "")

	for {
		gen, filters, ok := pager.NextPage()
		if !ok {
			break
		}
		page, res := a.client.Recipes(ctx, filters)
		if !res.Success {
			return printResult(res)
		}
		pager.Apply(gen, filters.Page, page.Items, page.Total)
	}

	printRecipes(api.RecipePage{Items: pager.Items(), Total: len(pager.Items())})
	fmt.Printf("%d pages\n", pager.TotalPages())
	return nil
}

func (a *app) myRecipes(ctx context.Context, args []string, favorites bool) error {
	filters := api.ListFilters{Page: 1}
	if len(args) > 0 {
		filters.SearchKey = strings.Join(args, " ")
	}
	var page api.RecipePage
	var res api.Result
	if favorites {
		page, res = a.client.Favorites(ctx, filters)
	} else {
		page, res = a.client.MyRecipes(ctx, filters)
	}
	if !res.Success {
		return printResult(res)
	}
	printRecipes(page)
	return nil
}

func (a *app) recipe(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: foodies recipe <id>")
	}
	recipe, res := a.client.Recipe(ctx, args[0])
	if !res.Success {
		return printResult(res)
	}
	fmt.Printf("%s (%.1f)\n\nIngredients: %s\n\nSteps: %s\n\nPrep %s, cook %s\n",
		recipe.Title, recipe.AverageRating, recipe.Ingredients, recipe.Steps,
		recipe.PreparationTime, recipe.CookingTime)
	return nil
}

func (a *app) rate(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: foodies rate <recipeId> <1-5> <comment>")
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil || rating < 1 || rating > 5 {
		return errors.New("rating must be a number from 1 to 5")
	}
	return printResult(a.client.RateRecipe(ctx, args[0], rating, strings.Join(args[2:], " ")))
}

func (a *app) toggleSaved(ctx context.Context, command string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: foodies %s <recipeId>", command)
	}
	return printResult(a.client.ToggleSaved(ctx, args[0], command == "save"))
}

func (a *app) follow(ctx context.Context, command string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: foodies %s <userId>", command)
	}
	req := api.FollowRequest{FollowedID: args[0], Follow: command == "follow", UnfollowBody: command == "unfollow"}
	return printResult(a.client.Follow(ctx, req))
}

func (a *app) profiles(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: foodies profiles <users|following|followers> [search]")
	}
	kinds := map[string]api.ProfileKind{
		"users":     api.ProfilesAllUsers,
		"following": api.ProfilesFollowing,
		"followers": api.ProfilesFollowers,
	}
	kind, ok := kinds[args[0]]
	if !ok {
		return fmt.Errorf("unknown profile list %q", args[0])
	}
	searchKey := strings.Join(args[1:], " ")
	page, res := a.client.Profiles(ctx, kind, 1, searchKey)
	if !res.Success {
		return printResult(res)
	}
	if len(page.Items) == 0 {
		fmt.Println("No profiles found")
		return nil
	}
	for _, p := range page.Items {
		fmt.Printf("%s  %s  %s\n", p.ID, p.Name, p.Email)
	}
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: foodies upload <image file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	url, res := a.client.UploadRecipeImage(ctx, f.Name(), f)
	if !res.Success {
		return printResult(res)
	}
	fmt.Printf("Image successfully uploaded: %s\n", url)
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	if len(args) < 6 {
		return errors.New("usage: foodies create <title> <ingredients> <steps> <prepTime> <cookTime> <imageUrl> [description]")
	}
	req := api.AddRecipeRequest{
		Title:           args[0],
		Ingredients:     args[1],
		Steps:           args[2],
		PreparationTime: args[3],
		CookingTime:     args[4],
		ImageURL:        args[5],
	}
	if len(args) > 6 {
		req.Description = strings.Join(args[6:], " ")
	}
	failed := validation.ValidateAll(map[validation.Field]string{
		validation.FieldRecipeTitle: req.Title,
		validation.FieldIngredients: req.Ingredients,
		validation.FieldPrepSteps:   req.Steps,
		validation.FieldPrepTime:    req.PreparationTime,
		validation.FieldCookingTime: req.CookingTime,
		validation.FieldImageURL:    req.ImageURL,
	}, validation.Form{})
	if err := firstError(failed); err != nil {
		return err
	}
	return printResult(a.client.CreateRecipe(ctx, req))
}

func (a *app) me(ctx context.Context) error {
	profile, res := a.client.User(ctx)
	if !res.Success {
		return printResult(res)
	}
	fmt.Printf("%s <%s>\nBio: %s\nFavourite recipe: %s\n",
		profile.Name, profile.Email, profile.Bio, profile.FavouriteRecipe)
	return nil
}

// update accepts field=value pairs for the mutable profile fields and
// sends only the ones given.
func (a *app) update(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: foodies update <field>=<value> ... (name, email, password, bio, favouriteRecipe)")
	}
	var req api.UpdateProfileRequest
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", arg)
		}
		if msg := validation.Validate(validation.Field(field), value, validation.Form{}); msg != "" {
			return errors.New(msg)
		}
		switch field {
		case "name":
			req.Name = value
		case "email":
			req.Email = value
		case "password":
			req.Password = value
		case "bio":
			req.Bio = value
		case "favouriteRecipe":
			req.FavouriteRecipe = value
		default:
			return fmt.Errorf("unknown profile field %q", field)
		}
	}
	return printResult(a.client.UpdateProfile(ctx, req))
}

func (a *app) chat(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: foodies chat <peerId>")
	}
	sess, err := a.store.Current()
	if err != nil {
		return err
	}
	conv := chat.NewConversation(a.client, sess.UserID, args[0])
	if res := conv.Load(ctx); !res.Success {
		return printResult(res)
	}
	for _, m := range conv.Messages() {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04"), m.Sender, m.Content)
	}
	return nil
}

func (a *app) send(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: foodies send <peerId> <message>")
	}
	sess, err := a.store.Current()
	if err != nil {
		return err
	}
	conv := chat.NewConversation(a.client, sess.UserID, args[0])
	return printResult(conv.Send(ctx, strings.Join(args[1:], " ")))
}

// listen keeps a realtime channel open and prints notifications and chat
// messages until interrupted.
func (a *app) listen(ctx context.Context) error {
	inbox := notify.NewInbox()
	channel := realtime.NewChannel(a.cfg.GetSocketURL(), a.store)
	channel.OnNotification(func(n realtime.Notification) {
		inbox.Add(n)
		fmt.Printf("[%s] %s (unread: %d)\n", n.Title, n.Message, inbox.Unread())
	})
	channel.OnMessage(func(ev realtime.ChatEvent) {
		fmt.Printf("[message] %s -> %s: %s\n", ev.Sender, ev.Receiver, ev.Content)
	})

	if err := channel.Dial(ctx); err != nil {
		return fmt.Errorf("connect socket: %w", err)
	}
	defer channel.Close()

	log.Info().Str("url", a.cfg.GetSocketURL()).Msg("Listening for notifications")
	waitForStopSignal()
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func printResult(res api.Result) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	var pretty map[string]any
	if err := json.Unmarshal(res.Data, &pretty); err == nil {
		if msg, ok := pretty["message"].(string); ok && msg != "" {
			fmt.Println(msg)
			return nil
		}
	}
	fmt.Println("OK")
	return nil
}

func printRecipes(page api.RecipePage) {
	if len(page.Items) == 0 {
		fmt.Println("No recipes found")
		return
	}
	for _, r := range page.Items {
		fmt.Printf("%s  %-40s  %.1f  prep %s  cook %s\n",
			r.ID, r.Title, r.AverageRating, r.PreparationTime, r.CookingTime)
	}
	fmt.Printf("%d total\n", page.Total)
}

func firstError(failed map[validation.Field]string) error {
	for _, msg := range failed {
		return errors.New(msg)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Print(`usage: foodies <command> [args]

account:   signin signup verify resend forgot reset logout me update
recipes:   recipes browse mine favorites recipe rate save unsave upload create
social:    follow unfollow profiles
chat:      chat send listen
`)
}
