package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/fithub/internal/formatter"
	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/services"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/desertthunder/fithub/internal/stats"
	"github.com/desertthunder/fithub/internal/store"
	"github.com/desertthunder/fithub/internal/tasks"
)

// Page identifies one screen of the app.
type Page int

const (
	DashboardPage Page = iota
	WorkoutPage
	NutritionPage
	GoalsPage
	CoachPage
	MotivationPage
	SettingsPage
)

var pageNames = []string{"Dashboard", "Workout", "Nutrition", "Goals", "AI Coach", "Motivation", "Settings"}

const pageCount = Page(7)

func (p Page) String() string {
	if p < 0 || p >= pageCount {
		return "Unknown"
	}
	return pageNames[p]
}

// KeySetter accepts an API key typed into the TUI. [services.PromptCredentials] implements it.
type KeySetter interface {
	Set(key string)
	HasCredential() bool
}

// Options wires the [Model] to the application services.
type Options struct {
	Store     *store.Store
	Advisor   *tasks.Advisor
	Video     *tasks.VideoWorkflow
	Keys      KeySetter
	Request   services.VideoRequest // Initial motivation prompt and format
	ExportDir string
	Open      func(path string) error // Defaults to [shared.OpenFile]
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	opts   Options
	state  models.AppState
	page   Page
	width  int
	height int

	login   *form
	workout *form
	food    *form
	goal    *form
	prompt  *form
	apiKey  *form

	workouts list.Model
	foods    list.Model
	goals    list.Model

	spinner  spinner.Model
	advising bool
	advice   string

	progressChan chan tasks.ProgressUpdate
	videoDone    chan Msg
	videoState   tasks.VideoState
	videoStatus  string
	videoPath    string
	videoErr     string

	exportFormat formatter.Format
	confirmPurge bool
	notice       string
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over the current store snapshot.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Request.Prompt == "" {
		opts.Request.Prompt = tasks.DefaultVideoPrompt
	}
	if opts.Request.Resolution == "" {
		opts.Request.Resolution = services.Resolution720p
	}
	if opts.Request.AspectRatio == "" {
		opts.Request.AspectRatio = services.AspectLandscape
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Open == nil {
		opts.Open = shared.OpenFile
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		ctx:          ctx,
		opts:         opts,
		login:        newForm("Name", "Email"),
		workout:      newForm("Exercise", "Reps", "Weight (kg)"),
		food:         newForm("Food", "Calories", "Protein (g)"),
		goal:         newForm("Goal", "Target", "Current", "Unit"),
		prompt:       newForm("Prompt"),
		apiKey:       newForm("Gemini API key").mask(0),
		workouts:     newList("Recent Workouts"),
		foods:        newList("Today's Meals"),
		goals:        newList("Goals"),
		spinner:      s,
		videoStatus:  tasks.LoadingMessages[0],
		exportFormat: formatter.FormatJSON,
		help:         help.New(),
		keys:         newKeyMap(),
	}
	m.commit(opts.Store.Snapshot(), nil)
	return m
}

// Init starts the cursor blink for whichever field has focus.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 4 && msg.Height > 12 {
			m.workouts.SetSize(msg.Width-4, msg.Height-12)
			m.foods.SetSize(msg.Width-4, msg.Height-12)
			m.goals.SetSize(msg.Width-4, msg.Height-12)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.state.LoggedIn() {
			return m.handleFormKeys(m.login, msg)
		}
		if f := m.activeForm(); f != nil {
			return m.handleFormKeys(f, msg)
		}
		if m.confirmPurge {
			return m.handleConfirmKeys(msg)
		}
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if m.handleNavKeys(msg) {
			return m, nil
		}
		m.notice = ""

		switch m.page {
		case WorkoutPage, NutritionPage, GoalsPage:
			return m.handleListKeys(msg)
		case CoachPage:
			return m.handleCoachKeys(msg)
		case MotivationPage:
			return m.handleMotivationKeys(msg)
		case SettingsPage:
			return m.handleSettingsKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.advising && m.progressChan == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgAdvice:
			res := msg.data.(adviceResult)
			m.advising = false
			if res.err == nil {
				m.advice = res.advice
			}
			return m, nil

		case MsgProgressUpdate:
			update := msg.data.(tasks.ProgressUpdate)
			switch update.Phase {
			case tasks.StateChange:
				if s, ok := update.Data.(tasks.VideoState); ok {
					m.videoState = s
				}
			case tasks.StatusMessage:
				m.videoStatus = update.Message
			}
			return m, m.waitForProgress()

		case MsgVideoComplete:
			res := msg.data.(videoResult)
			m.progressChan = nil
			m.videoDone = nil
			if errRequestInFlight(res.err) {
				m.notice = "A video is already being generated."
				return m, nil
			}
			if res.err != nil {
				m.videoState = tasks.Failed
				m.videoErr = tasks.FailureNotice
				return m, nil
			}
			m.videoState = tasks.Ready
			m.videoPath = res.result.Path
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the login screen or the current page.
func (m *Model) View() string {
	styles := paletteFor(m.state.IsDarkMode)
	if !m.state.LoggedIn() {
		return m.renderLogin(styles)
	}

	var body string
	switch m.page {
	case DashboardPage:
		body = m.renderDashboard(styles)
	case WorkoutPage:
		body = m.renderListPage(styles, m.workout, &m.workouts)
	case NutritionPage:
		body = m.renderListPage(styles, m.food, &m.foods)
	case GoalsPage:
		body = m.renderListPage(styles, m.goal, &m.goals)
	case CoachPage:
		body = m.renderCoach(styles)
	case MotivationPage:
		body = m.renderMotivation(styles)
	case SettingsPage:
		body = m.renderSettings(styles)
	}

	return fmt.Sprintf("%s\n\n%s\n%s", m.renderTabs(styles), body, m.renderFooter(styles))
}

// commit installs a state returned by the store and refreshes the lists.
func (m *Model) commit(state models.AppState, err error) {
	m.state = state
	if err != nil {
		m.notice = fmt.Sprintf("Changes were not saved: %v", err)
	}

	m.workouts.SetItems(workoutItems(state.Workouts))
	m.foods.SetItems(foodItems(state.Foods))
	m.goals.SetItems(goalItems(state.Goals))

	if !state.LoggedIn() && !m.login.active {
		m.page = DashboardPage
		m.login.Focus()
	}
}

func (m *Model) apply(t models.Transform) {
	m.commit(m.opts.Store.Mutate(m.ctx, t))
}

func (m *Model) activeForm() *form {
	for _, f := range []*form{m.apiKey, m.prompt, m.workout, m.food, m.goal} {
		if f.active {
			return f
		}
	}
	return nil
}

func (m *Model) formFor(p Page) *form {
	switch p {
	case WorkoutPage:
		return m.workout
	case NutritionPage:
		return m.food
	case GoalsPage:
		return m.goal
	}
	return nil
}

func (m *Model) listFor(p Page) *list.Model {
	switch p {
	case NutritionPage:
		return &m.foods
	case GoalsPage:
		return &m.goals
	}
	return &m.workouts
}

func (m *Model) handleFormKeys(f *form, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		if f != m.login {
			f.Blur()
		}
		return m, nil
	case msg.Type == tea.KeyTab:
		cmd, _ := f.Next()
		return m, cmd
	case msg.Type == tea.KeyEnter:
		if cmd, ok := f.Next(); ok {
			return m, cmd
		}
		return m, m.submit(f)
	}
	return m, f.Update(msg)
}

// submit acts on a completed form. Invalid entries are skipped silently and keep the form open.
func (m *Model) submit(f *form) tea.Cmd {
	values := f.Values()
	now := time.Now()

	switch f {
	case m.login:
		f.Reset()
		f.Blur()
		m.commit(m.opts.Store.Login(m.ctx, models.NewUser(values[0], values[1])))
		return nil

	case m.workout:
		reps, _ := strconv.Atoi(values[1])
		w, ok := models.NewWorkout(values[0], reps, parseNumber(values[2]), now)
		if !ok {
			return nil
		}
		m.apply(models.AddItem(models.WorkoutList, w))

	case m.food:
		food, ok := models.NewFood(values[0], parseNumber(values[1]), parseNumber(values[2]), now)
		if !ok {
			return nil
		}
		m.apply(models.AddItem(models.FoodList, food))

	case m.goal:
		g, ok := models.NewGoal(values[0], parseNumber(values[1]), parseNumber(values[2]), values[3])
		if !ok {
			return nil
		}
		m.apply(models.AddItem(models.GoalList, g))

	case m.prompt:
		if values[0] != "" {
			m.opts.Request.Prompt = values[0]
		}

	case m.apiKey:
		f.Reset()
		f.Blur()
		if m.opts.Keys != nil {
			m.opts.Keys.Set(values[0])
		}
		return m.generate()
	}

	f.Reset()
	f.Blur()
	return nil
}

func (m *Model) handleNavKeys(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.next):
		m.page = (m.page + 1) % pageCount
	case key.Matches(msg, m.keys.prev):
		m.page = (m.page + pageCount - 1) % pageCount
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '7':
		m.page = Page(msg.Runes[0] - '1')
	default:
		return false
	}
	return true
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.add):
		return m, m.formFor(m.page).Focus()
	case key.Matches(msg, m.keys.remove):
		m.removeSelected()
		return m, nil
	}

	l := m.listFor(m.page)
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) removeSelected() {
	switch item := m.listFor(m.page).SelectedItem().(type) {
	case workoutItem:
		m.apply(models.RemoveItem(models.WorkoutList, item.workout.ID))
	case foodItem:
		m.apply(models.RemoveItem(models.FoodList, item.food.ID))
	case goalItem:
		m.apply(models.RemoveItem(models.GoalList, item.goal.ID))
	}
}

func (m *Model) handleCoachKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.generate) {
		return m, m.requestAdvice()
	}
	return m, nil
}

// requestAdvice starts one advice request. It does nothing while one is pending.
func (m *Model) requestAdvice() tea.Cmd {
	if m.advising || m.opts.Advisor == nil {
		return nil
	}
	m.advising = true
	return tea.Batch(m.spinner.Tick, m.fetchAdvice(m.state.Clone()))
}

func (m *Model) fetchAdvice(state models.AppState) tea.Cmd {
	return func() tea.Msg {
		advice, err := m.opts.Advisor.Request(m.ctx, state, nil)
		return adviceMsg(advice, err)
	}
}

func (m *Model) handleMotivationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	busy := m.progressChan != nil

	switch {
	case key.Matches(msg, m.keys.edit) && !busy:
		m.prompt.SetValue(0, m.opts.Request.Prompt)
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.resolution) && !busy:
		m.opts.Request.Resolution = m.opts.Request.Resolution.Toggle()
	case key.Matches(msg, m.keys.aspect) && !busy:
		m.opts.Request.AspectRatio = m.opts.Request.AspectRatio.Toggle()
	case key.Matches(msg, m.keys.open) && m.videoPath != "":
		if err := m.opts.Open(m.videoPath); err != nil {
			m.notice = fmt.Sprintf("Could not open video: %v", err)
		}
	case key.Matches(msg, m.keys.generate) && !busy:
		if m.opts.Keys != nil && !m.opts.Keys.HasCredential() {
			return m, m.apiKey.Focus()
		}
		return m, m.generate()
	}
	return m, nil
}

func (m *Model) generate() tea.Cmd {
	if m.opts.Video == nil || m.progressChan != nil {
		return nil
	}
	m.videoErr = ""
	m.videoPath = ""
	m.videoStatus = tasks.LoadingMessages[0]
	return tea.Batch(m.spinner.Tick, m.startVideo())
}

// startVideo runs the workflow in the background and returns the first progress read.
func (m *Model) startVideo() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	req := m.opts.Request

	go func() {
		result, err := m.opts.Video.Run(m.ctx, req, progress)
		close(progress)
		done <- videoCompleteMsg(result, err)
	}()

	m.progressChan = progress
	m.videoDone = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.videoDone
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.theme):
		m.apply(models.SetDarkMode(!m.state.IsDarkMode))
	case key.Matches(msg, m.keys.format):
		formats := formatter.Formats()
		for i, f := range formats {
			if f == m.exportFormat {
				m.exportFormat = formats[(i+1)%len(formats)]
				break
			}
		}
	case key.Matches(msg, m.keys.export):
		target := filepath.Join(m.opts.ExportDir, formatter.DefaultFilename(m.exportFormat, time.Now()))
		path, err := formatter.WriteExport(m.state, m.exportFormat, target)
		if err != nil {
			m.notice = fmt.Sprintf("Export failed: %v", err)
		} else {
			m.notice = fmt.Sprintf("Exported to %s", path)
		}
	case key.Matches(msg, m.keys.purge):
		m.confirmPurge = true
	case key.Matches(msg, m.keys.logout):
		m.commit(m.opts.Store.Logout(m.ctx))
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.confirmPurge = false
		m.advice = ""
		m.commit(m.opts.Store.Purge(m.ctx))
	case key.Matches(msg, m.keys.no):
		m.confirmPurge = false
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case WorkoutPage:
		m.workouts, cmd = m.workouts.Update(msg)
	case NutritionPage:
		m.foods, cmd = m.foods.Update(msg)
	case GoalsPage:
		m.goals, cmd = m.goals.Update(msg)
	}
	return m, cmd
}

func (m *Model) renderLogin(p *Palette) string {
	title := p.title.Render("FitHub")
	intro := "Sign in to track workouts, nutrition, and goals.\nLeave fields blank to use the demo profile."
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter})
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", title, intro, m.login.View(), helpView)
}

func (m *Model) renderTabs(p *Palette) string {
	tabs := make([]string, pageCount)
	for i := range pageCount {
		label := fmt.Sprintf("%d %s", i+1, i)
		if i == m.page {
			tabs[i] = p.active.Render(label)
		} else {
			tabs[i] = p.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderFooter(p *Palette) string {
	var bindings []key.Binding
	switch {
	case m.activeForm() != nil:
		bindings = []key.Binding{m.keys.enter, m.keys.back}
	case m.confirmPurge:
		bindings = []key.Binding{m.keys.yes, m.keys.no}
	case m.page == WorkoutPage || m.page == NutritionPage || m.page == GoalsPage:
		bindings = []key.Binding{m.keys.add, m.keys.remove, m.keys.next, m.keys.quit}
	case m.page == CoachPage:
		bindings = []key.Binding{m.keys.generate, m.keys.next, m.keys.quit}
	case m.page == MotivationPage:
		bindings = []key.Binding{m.keys.generate, m.keys.edit, m.keys.resolution, m.keys.aspect, m.keys.open, m.keys.quit}
	case m.page == SettingsPage:
		bindings = []key.Binding{m.keys.theme, m.keys.format, m.keys.export, m.keys.purge, m.keys.logout, m.keys.quit}
	default:
		bindings = m.keys.ShortHelp()
	}

	footer := m.help.ShortHelpView(bindings)
	if m.notice != "" {
		footer = p.warn.Render(m.notice) + "\n" + footer
	}
	return footer
}

func (m *Model) renderDashboard(p *Palette) string {
	d := stats.Compute(m.state)

	greeting := p.title.Render(fmt.Sprintf("Welcome back, %s", m.state.User.Name))
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		p.card.Render(fmt.Sprintf("Calories\n%s kcal", number(d.TotalCalories))),
		p.card.Render(fmt.Sprintf("Workouts\n%d logged", d.WorkoutCount)),
		p.card.Render(fmt.Sprintf("Goals\n%d%% avg", int(d.GoalProgress*100))),
		p.card.Render(fmt.Sprintf("Streak\n%d days", d.Streak)),
	)

	peak := 0
	for _, day := range d.Weekly {
		peak = max(peak, day.Workouts)
	}

	var weekly strings.Builder
	weekly.WriteString("Weekly activity\n")
	for _, day := range d.Weekly {
		width := 0
		if peak > 0 {
			width = day.Workouts * 20 / peak
		}
		weekly.WriteString(fmt.Sprintf("%s %s %d\n", day.Day, p.bar.Render(strings.Repeat("█", width)), day.Workouts))
	}

	var recent strings.Builder
	recent.WriteString("Recent workouts\n")
	if len(m.state.Workouts) == 0 {
		recent.WriteString(p.help.Render("No workouts yet. Press 2 to log one."))
	}
	for i, w := range m.state.Workouts {
		if i == 3 {
			break
		}
		recent.WriteString(fmt.Sprintf("• %s  %s\n", w.Name, workoutItem{workout: w}.Description()))
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", greeting, cards, weekly.String(), recent.String())
}

func (m *Model) renderListPage(p *Palette, f *form, l *list.Model) string {
	if f.active {
		return fmt.Sprintf("%s\n%s", p.title.Render("New entry"), f.View())
	}
	if len(l.Items()) == 0 {
		return fmt.Sprintf("%s\n%s", p.title.Render(l.Title), p.help.Render("Nothing logged yet. Press a to add an entry."))
	}
	return l.View()
}

func (m *Model) renderCoach(p *Palette) string {
	title := p.title.Render("AI Coach")
	switch {
	case m.advising:
		return fmt.Sprintf("%s\n%s Analyzing your data...", title, m.spinner.View())
	case m.advice != "":
		return fmt.Sprintf("%s\n%s", title, m.advice)
	}
	return fmt.Sprintf("%s\n%s", title, p.help.Render("Press enter for advice based on your recent workouts, meals, and goals."))
}

func (m *Model) renderMotivation(p *Palette) string {
	var b strings.Builder
	b.WriteString(p.title.Render("Motivation Studio"))
	b.WriteString("\n")

	if m.prompt.active {
		b.WriteString(m.prompt.View())
		return b.String()
	}
	if m.apiKey.active {
		b.WriteString(p.warn.Render("Video generation needs an API key from a paid project."))
		b.WriteString("\n")
		b.WriteString(m.apiKey.View())
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Prompt: %s\n", m.opts.Request.Prompt))
	b.WriteString(fmt.Sprintf("Resolution: %s   Aspect: %s\n\n", m.opts.Request.Resolution, m.opts.Request.AspectRatio))

	switch {
	case m.progressChan != nil:
		b.WriteString(fmt.Sprintf("%s %s\n%s", m.spinner.View(), m.videoState, p.help.Render(m.videoStatus)))
	case m.videoErr != "":
		b.WriteString(p.err.Render(m.videoErr))
	case m.videoPath != "":
		b.WriteString(p.ok.Render("✓ Video ready"))
		b.WriteString(fmt.Sprintf("\n%s\n", m.videoPath))
	}
	return b.String()
}

func (m *Model) renderSettings(p *Palette) string {
	theme := "Light"
	if m.state.IsDarkMode {
		theme = "Dark"
	}

	var b strings.Builder
	b.WriteString(p.title.Render("Settings"))
	b.WriteString(fmt.Sprintf("\nProfile: %s <%s>\n", m.state.User.Name, m.state.User.Email))
	b.WriteString(fmt.Sprintf("Theme: %s\n", theme))
	b.WriteString(fmt.Sprintf("Export format: %s\n", m.exportFormat))
	if m.confirmPurge {
		b.WriteString("\n")
		b.WriteString(p.err.Render("Delete all data? This cannot be undone. (y/n)"))
	}
	return b.String()
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// errRequestInFlight reports whether err is the workflow guard rejection.
func errRequestInFlight(err error) bool {
	return errors.Is(err, tasks.ErrRequestInFlight)
}
