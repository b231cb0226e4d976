package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"sports-cms/internal/domain/entity"
	"sports-cms/internal/infra/gqlclient"
	"sports-cms/internal/usecase/listsync"
)

// API is the subset of the GraphQL client the shell drives.
type API interface {
	listsync.Lister
	listsync.Mutator
	GetArticle(ctx context.Context, id string) (*entity.Article, error)
}

const helpText = `commands:
  list            show the loaded articles (loads the first page on first use)
  more            load the next page
  refresh         reload the first page
  show <id>       print one article
  create          create an article
  edit <id>       edit an article (empty input keeps a field, "-" clears the image)
  delete <id>     delete an article
  help            print this text
  quit            exit`

// shell is a line-oriented front end over a list session.
type shell struct {
	api     API
	session *listsync.Session
	editor  *listsync.Editor
	in      *bufio.Scanner
	out     io.Writer
	loc     *time.Location
}

func newShell(api API, session *listsync.Session, in io.Reader, out io.Writer) *shell {
	return &shell{
		api:     api,
		session: session,
		editor:  &listsync.Editor{API: api, Session: session},
		in:      bufio.NewScanner(in),
		out:     out,
		loc:     time.Local,
	}
}

// Run reads commands until quit, end of input or cancellation.
func (s *shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("> ")
		line, ok := s.readLine()
		if !ok {
			s.printf("\n")
			return s.in.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch cmd {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			s.printf("%s\n", helpText)
		case "list":
			err = s.list(ctx)
		case "more":
			err = s.more(ctx)
		case "refresh":
			err = s.refresh(ctx)
		case "show":
			err = s.show(ctx, arg)
		case "create":
			err = s.create(ctx)
		case "edit":
			err = s.edit(ctx, arg)
		case "delete":
			err = s.delete(ctx, arg)
		default:
			s.printf("unknown command %q, type help\n", cmd)
		}
		if err != nil {
			s.printf("error: %s\n", describe(err))
		}
	}
}

func (s *shell) list(ctx context.Context) error {
	if !s.session.Snapshot().Initialized {
		if err := s.session.Load(ctx); err != nil {
			return err
		}
	}
	s.render()
	return nil
}

func (s *shell) more(ctx context.Context) error {
	st := s.session.Snapshot()
	if !st.Initialized {
		return s.list(ctx)
	}
	if !st.HasMore {
		s.printf("no more articles\n")
		return nil
	}
	if err := s.session.LoadMore(ctx); err != nil {
		return err
	}
	s.render()
	return nil
}

func (s *shell) refresh(ctx context.Context) error {
	if err := s.session.Refresh(ctx); err != nil {
		return err
	}
	s.render()
	return nil
}

func (s *shell) show(ctx context.Context, id string) error {
	if id == "" {
		s.printf("usage: show <id>\n")
		return nil
	}
	a, err := s.api.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	s.printf("%s\n%s\n", a.Title, strings.Repeat("=", len([]rune(a.Title))))
	s.printf("id:      %s\ncreated: %s\n", a.ID, a.CreatedAt.In(s.loc).Format(time.DateTime))
	if a.ImageURL != nil {
		s.printf("image:   %s\n", *a.ImageURL)
	}
	s.printf("\n%s\n", a.Content)
	return nil
}

func (s *shell) create(ctx context.Context) error {
	title, _ := s.prompt("title: ")
	content, _ := s.prompt("content: ")
	image, _ := s.prompt("image url (optional): ")

	in := entity.ArticleInput{Title: title, Content: content}
	if image != "" {
		in.ImageURL = &image
	}
	a, err := s.editor.Create(ctx, in)
	if err != nil {
		return err
	}
	s.printf("created %s\n", a.ID)
	s.render()
	return nil
}

func (s *shell) edit(ctx context.Context, id string) error {
	if id == "" {
		s.printf("usage: edit <id>\n")
		return nil
	}
	current, err := s.api.GetArticle(ctx, id)
	if err != nil {
		return err
	}

	in := entity.ArticleInput{Title: current.Title, Content: current.Content, ImageURL: current.ImageURL}
	if v, _ := s.prompt(fmt.Sprintf("title [%s]: ", current.Title)); v != "" {
		in.Title = v
	}
	if v, _ := s.prompt("content [keep]: "); v != "" {
		in.Content = v
	}
	imagePrompt := "image url [none]: "
	if current.ImageURL != nil {
		imagePrompt = fmt.Sprintf("image url [%s]: ", *current.ImageURL)
	}
	switch v, _ := s.prompt(imagePrompt); v {
	case "":
	case "-":
		in.ImageURL = nil
	default:
		in.ImageURL = &v
	}

	if _, err := s.editor.Update(ctx, id, in); err != nil {
		return err
	}
	s.printf("updated %s\n", id)
	s.render()
	return nil
}

func (s *shell) delete(ctx context.Context, id string) error {
	if id == "" {
		s.printf("usage: delete <id>\n")
		return nil
	}
	if err := s.editor.Delete(ctx, id); err != nil {
		return err
	}
	s.printf("deleted %s\n", id)
	s.render()
	return nil
}

func (s *shell) render() {
	st := s.session.Snapshot()
	if len(st.Items) == 0 {
		s.printf("no articles\n")
	}
	for i, a := range st.Items {
		s.printf("%3d. %s  %s  (%s)\n", i+1, a.CreatedAt.In(s.loc).Format(time.DateOnly), a.Title, a.ID)
	}
	if st.HasMore {
		s.printf("showing %d of %d, type more for the next page\n", len(st.Items), st.TotalCount)
	}
	if st.Err != nil {
		s.printf("last sync failed: %s\n", describe(st.Err))
	}
}

func (s *shell) prompt(label string) (string, bool) {
	s.printf("%s", label)
	line, ok := s.readLine()
	return strings.TrimSpace(line), ok
}

func (s *shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// describe renders an error for the prompt. API errors are shown verbatim.
func describe(err error) string {
	var respErr *gqlclient.ResponseError
	if errors.As(err, &respErr) {
		return respErr.Error()
	}
	return "request failed: " + err.Error()
}
