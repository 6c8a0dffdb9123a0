// Command flashquiz is a terminal client for studying documents. It extracts
// text from a local file, generates flashcards and quizzes from it, and keeps
// study history in a local cache, syncing to a flashquiz server when
// FLASHQUIZ_SERVER_URL is set.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"flashquiz/internal/ai"
	"flashquiz/internal/cache"
	"flashquiz/internal/extract"
	"flashquiz/internal/models"
	"flashquiz/internal/session"
	"flashquiz/internal/store"
	"flashquiz/internal/textutil"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: flashquiz <command> [arguments]

Commands:
  login -email <email> -password <password>   Sign in
  signup -name <name> -email <email> -password <password>
  logout                                      Sign out and clear local data
  upload -file <path> [-count N]              Generate study material from a document
  list                                        List quizzes and flashcard sets
  take -quiz <number>                         Take a quiz interactively
  cards -set <number>                         Review a flashcard set
  stats                                       Show study statistics
  activities                                  Show the recent activity feed
`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("ERROR: failed to load .env file: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()
	sess, cleanup := newSession(ctx)

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, sess, os.Args[2:])
	case "signup":
		err = runSignup(ctx, sess, os.Args[2:])
	case "logout":
		sess.Logout()
		fmt.Println("Logged out.")
	case "upload":
		err = runUpload(ctx, sess, os.Args[2:])
	case "list":
		err = runList(sess)
	case "take":
		err = runTake(sess, os.Args[2:])
	case "cards":
		err = runCards(sess, os.Args[2:])
	case "stats":
		err = runStats(sess)
	case "activities":
		err = runActivities(sess)
	default:
		usage()
	}

	// Flush pending background writes before reporting the outcome.
	cleanup()
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func newSession(ctx context.Context) (*session.Container, func()) {
	var gateway store.Gateway
	if serverURL := os.Getenv("FLASHQUIZ_SERVER_URL"); serverURL != "" {
		gateway = store.NewClient(serverURL)
	}

	cachePath := os.Getenv("FLASHQUIZ_CACHE")
	if cachePath == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			log.Fatalf("ERROR: cannot determine cache directory: %v", err)
		}
		cachePath = filepath.Join(dir, "flashquiz", "cache.db")
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		log.Fatalf("ERROR: cannot create cache directory: %v", err)
	}
	localCache, err := cache.Open(cachePath)
	if err != nil {
		log.Fatalf("ERROR: cannot open cache: %v", err)
	}

	sess := session.New(session.Options{
		Gateway:        gateway,
		Cache:          localCache,
		DemoLoginDelay: 500 * time.Millisecond,
	})
	if err := sess.Init(ctx); err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	cleanup := func() {
		sess.Wait()
		if failures := sess.WriteFailures(); failures > 0 {
			log.Printf("WARN: %d background sync write(s) failed; local data is intact", failures)
		}
		localCache.Close()
	}
	return sess, cleanup
}

func requireUser(sess *session.Container) (*models.User, error) {
	user := sess.User()
	if user == nil {
		return nil, errors.New("not signed in; run 'flashquiz login' first")
	}
	return user, nil
}

func runLogin(ctx context.Context, sess *session.Container, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	if err := sess.Login(ctx, *email, *password); err != nil {
		return err
	}
	user := sess.User()
	fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func runSignup(ctx context.Context, sess *session.Container, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		return errors.New("signup requires -name, -email, and -password")
	}

	if err := sess.Signup(ctx, *name, *email, *password); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("an account for %s already exists", *email)
		}
		return err
	}
	fmt.Printf("Account created for %s\n", *email)
	return nil
}

func runUpload(ctx context.Context, sess *session.Container, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("file", "", "document to study (txt, md, pdf, docx)")
	count := fs.Int("count", 10, "number of flashcards and quiz questions")
	fs.Parse(args)
	if *file == "" {
		return errors.New("upload requires -file")
	}
	if _, err := requireUser(sess); err != nil {
		return err
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", *file, err)
	}

	filename := filepath.Base(*file)
	text, err := extract.New().Extract(ctx, filename, "", data)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %d characters from %s\n", len(text), filename)

	aiClient, err := ai.NewClient(ctx)
	if err != nil {
		return err
	}
	defer aiClient.Close()

	cards, err := aiClient.GenerateFlashcards(ctx, text, *count)
	if err != nil {
		return err
	}
	questions, err := aiClient.GenerateQuiz(ctx, text, *count)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	title := strings.TrimSuffix(filename, filepath.Ext(filename))

	set := models.FlashcardSet{
		ID:           textutil.NewID(),
		Title:        title,
		Flashcards:   cards,
		DocumentName: filename,
		CreatedAt:    now,
	}
	quiz := models.Quiz{
		ID:           textutil.NewID(),
		Title:        title,
		Questions:    questions,
		DocumentName: filename,
		CreatedAt:    now,
	}

	if err := sess.AddFlashcardSet(set); err != nil {
		return err
	}
	if err := sess.AddQuiz(quiz); err != nil {
		return err
	}
	if err := sess.AddActivity(models.ActivityItem{
		ID:          textutil.NewID(),
		Type:        models.ActivityUpload,
		Title:       filename,
		Description: fmt.Sprintf("Generated %d flashcards and %d quiz questions", len(cards), len(questions)),
		Timestamp:   now,
	}); err != nil {
		return err
	}

	fmt.Printf("Created flashcard set and quiz %q (%d cards, %d questions)\n", title, len(cards), len(questions))
	return nil
}

func runList(sess *session.Container) error {
	if _, err := requireUser(sess); err != nil {
		return err
	}

	quizzes := sess.Quizzes()
	sets := sess.FlashcardSets()

	fmt.Printf("Quizzes (%d):\n", len(quizzes))
	for i, q := range quizzes {
		fmt.Printf("  %d. %s (%d questions, from %s, %s)\n",
			i+1, q.Title, len(q.Questions), q.DocumentName, textutil.FormatDate(q.CreatedAt))
	}
	fmt.Printf("Flashcard sets (%d):\n", len(sets))
	for i, s := range sets {
		fmt.Printf("  %d. %s (%d cards, from %s, %s)\n",
			i+1, s.Title, len(s.Flashcards), s.DocumentName, textutil.FormatDate(s.CreatedAt))
	}
	return nil
}

func pickByNumber[T any](items []T, number int) (T, error) {
	var zero T
	if number < 1 || number > len(items) {
		return zero, fmt.Errorf("number %d out of range (have %d)", number, len(items))
	}
	return items[number-1], nil
}

func runTake(sess *session.Container, args []string) error {
	fs := flag.NewFlagSet("take", flag.ExitOnError)
	number := fs.Int("quiz", 0, "quiz number from 'flashquiz list'")
	fs.Parse(args)
	if _, err := requireUser(sess); err != nil {
		return err
	}

	quiz, err := pickByNumber(sess.Quizzes(), *number)
	if err != nil {
		return err
	}
	sess.SetCurrentQuiz(&quiz)
	defer sess.SetCurrentQuiz(nil)

	reader := bufio.NewReader(os.Stdin)
	answers := make(map[string]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Question)
		for j, option := range q.Options {
			fmt.Printf("   %c) %s\n", 'a'+j, option)
		}
		fmt.Print("Your answer (a-d): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		pick := strings.ToLower(strings.TrimSpace(line))
		if len(pick) == 1 {
			if idx := int(pick[0] - 'a'); idx >= 0 && idx < len(q.Options) {
				answers[q.ID] = q.Options[idx]
			}
		}
	}

	attempt, err := sess.SubmitQuiz(quiz, answers)
	if err != nil {
		return err
	}
	fmt.Printf("\nScore: %d/%d (%s)\n", attempt.Score, attempt.TotalQuestions,
		textutil.FormatPercent(attempt.Score, attempt.TotalQuestions))

	for _, q := range quiz.Questions {
		if answers[q.ID] != q.CorrectAnswer && q.Explanation != "" {
			fmt.Printf("  %s\n  Correct: %s. %s\n", q.Question, q.CorrectAnswer, q.Explanation)
		}
	}
	return nil
}

func runCards(sess *session.Container, args []string) error {
	fs := flag.NewFlagSet("cards", flag.ExitOnError)
	number := fs.Int("set", 0, "set number from 'flashquiz list'")
	fs.Parse(args)
	if _, err := requireUser(sess); err != nil {
		return err
	}

	set, err := pickByNumber(sess.FlashcardSets(), *number)
	if err != nil {
		return err
	}
	sess.SetCurrentFlashcards(&set)
	defer sess.SetCurrentFlashcards(nil)

	fmt.Printf("%s (%d cards)\n", set.Title, len(set.Flashcards))
	reader := bufio.NewReader(os.Stdin)
	for i, card := range set.Flashcards {
		fmt.Printf("\n%d. %s\n[press enter to reveal]", i+1, card.Question)
		if _, err := reader.ReadString('\n'); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		fmt.Printf("   %s\n", card.Answer)
	}

	if err := sess.AddActivity(models.ActivityItem{
		ID:          textutil.NewID(),
		Type:        models.ActivityFlashcard,
		Title:       set.Title,
		Description: fmt.Sprintf("Reviewed %d flashcards", len(set.Flashcards)),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		return err
	}
	return nil
}

func runStats(sess *session.Container) error {
	user, err := requireUser(sess)
	if err != nil {
		return err
	}

	stats := sess.Stats()
	fmt.Printf("Stats for %s:\n", user.Name)
	fmt.Printf("  Quizzes taken:      %d (%d this week)\n", stats.TotalQuizzes, stats.QuizzesThisWeek)
	fmt.Printf("  Average score:      %d%%\n", stats.AverageScore)
	fmt.Printf("  Flashcards total:   %d\n", stats.TotalFlashcards)
	fmt.Printf("  Flashcards studied: %d\n", stats.FlashcardsStudied)
	fmt.Printf("  Streak:             %d day(s)\n", stats.StreakDays)
	return nil
}

func runActivities(sess *session.Container) error {
	if _, err := requireUser(sess); err != nil {
		return err
	}

	feed := sess.Activities()
	if len(feed) == 0 {
		fmt.Println("No activity yet.")
		return nil
	}
	for _, item := range feed {
		line := fmt.Sprintf("%s  [%s] %s", textutil.FormatDate(item.Timestamp), item.Type, item.Title)
		if item.Description != "" {
			line += " " + strconv.Quote(item.Description)
		}
		if item.Score != nil {
			line += fmt.Sprintf(" (%d%%)", *item.Score)
		}
		fmt.Println(line)
	}
	return nil
}
