package dashboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/pipeline-visualization/internal/dashboard"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
)

func newCartBoard(t *testing.T) *dashboard.CartBoard {
	t.Helper()
	b, err := dashboard.NewCartBoard(dashboard.CartOptions{
		Interval:  interval,
		View:      "system_overview",
		Component: "all",
		Status:    "all",
	}, testEnv())
	require.NoError(t, err)
	return b
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, dashboard.StatusNotStarted, dashboard.StatusOf(0))
	assert.Equal(t, dashboard.StatusInProgress, dashboard.StatusOf(1))
	assert.Equal(t, dashboard.StatusInProgress, dashboard.StatusOf(99))
	assert.Equal(t, dashboard.StatusCompleted, dashboard.StatusOf(100))

	assert.True(t, dashboard.StatusAll.Matches(0))
	assert.True(t, dashboard.StatusCompleted.Matches(100))
	assert.False(t, dashboard.StatusCompleted.Matches(50))
}

func TestResolveTab(t *testing.T) {
	cases := []struct {
		view    dashboard.CartView
		focus   dashboard.Component
		current int
		want    int
	}{
		{dashboard.CartViewOverview, dashboard.ComponentPower, 3, dashboard.TabOverview},
		{dashboard.CartViewComponents, dashboard.ComponentPower, 0, dashboard.TabElectrical},
		{dashboard.CartViewComponents, dashboard.ComponentControl, 0, dashboard.TabElectrical},
		{dashboard.CartViewComponents, dashboard.ComponentSoftware, 0, dashboard.TabSoftware},
		{dashboard.CartViewComponents, dashboard.ComponentChassis, 0, dashboard.TabMechanical},
		{dashboard.CartViewComponents, dashboard.ComponentCommunication, 0, dashboard.TabCommunication},
		{dashboard.CartViewComponents, dashboard.ComponentAll, 2, 2},
		{dashboard.CartViewDataFlow, dashboard.ComponentAll, 0, dashboard.TabCommunication},
		{dashboard.CartViewModel, dashboard.ComponentAll, 0, dashboard.TabMechanical},
		{dashboard.CartView("bogus"), dashboard.ComponentAll, 5, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, dashboard.ResolveTab(tc.view, tc.focus, tc.current), "%s/%s", tc.view, tc.focus)
	}
}

func TestTickCart_Commands(t *testing.T) {
	s := dashboard.NewCartState(interval, testEnv().Rand)
	s.Clock = s.Clock.Start(t0)

	for i, p := range s.Progress {
		assert.GreaterOrEqual(t, p, 0, i)
		assert.LessOrEqual(t, p, 100, i)
	}

	next, cmds := dashboard.TickCart(s, t0, testEnv())
	assert.ElementsMatch(t, []render.Target{
		render.TargetView, render.TargetStages, render.TargetPower, render.TargetComponents,
	}, targets(cmds))

	stages := findTarget(cmds, render.TargetStages).(render.Nodes)
	require.Len(t, stages.Nodes, len(dashboard.CartStages))
	assert.Len(t, stages.Edges, len(dashboard.CartStages)-1)
	assert.Equal(t, render.NodeHighlight, stages.Nodes[0].Style)

	power := findTarget(cmds, render.TargetPower).(render.Nodes)
	require.Len(t, power.Nodes, 8)
	assert.Equal(t, render.NodeHighlight, power.Nodes[1].Style, "frame 1 highlights node 1")

	progress := findTarget(cmds, render.TargetComponents).(render.Progress)
	require.Len(t, progress.Items, len(dashboard.CartComponents))
	for i, item := range progress.Items {
		assert.Equal(t, next.Progress[i], item.Value)
		assert.True(t, item.Visible)
		assert.LessOrEqual(t, abs(item.Value-s.Progress[i]), 2)
	}
}

func TestTickCart_StageAdvancesEvery100Frames(t *testing.T) {
	env := testEnv()
	s := dashboard.NewCartState(interval, env.Rand)
	s.Clock = s.Clock.Start(t0)

	var cmds []render.Command
	for i := 0; i < 250; i++ {
		s, cmds = dashboard.TickCart(s, frameTime(i), env)
	}
	require.Equal(t, uint64(250), s.Clock.Frame())
	stages := findTarget(cmds, render.TargetStages).(render.Nodes)
	assert.Equal(t, render.NodeDone, stages.Nodes[0].Style)
	assert.Equal(t, render.NodeDone, stages.Nodes[1].Style)
	assert.Equal(t, render.NodeHighlight, stages.Nodes[2].Style)
	assert.Equal(t, render.NodeIdle, stages.Nodes[3].Style)
}

func TestCartBoard_StatusFilterNextFrame(t *testing.T) {
	b := newCartBoard(t)
	b.Start(t0)
	_, _, ok := b.Step(frameTime(0))
	require.True(t, ok)

	require.NoError(t, b.Select(dashboard.ControlStatus, 3)) // completed
	_, cmds, ok := b.Step(frameTime(1))
	require.True(t, ok)

	progress := findTarget(cmds, render.TargetComponents).(render.Progress)
	for _, item := range progress.Items {
		assert.Equal(t, item.Value == 100, item.Visible, item.Label)
	}
}

func TestCartBoard_ViewRouting(t *testing.T) {
	b := newCartBoard(t)
	b.Start(t0)

	require.NoError(t, b.Select(dashboard.ControlComponent, 4)) // software
	assert.Equal(t, dashboard.TabOverview, b.State().Tab, "overview ignores focus")

	require.NoError(t, b.Select(dashboard.ControlCartView, 1)) // component details
	assert.Equal(t, dashboard.TabSoftware, b.State().Tab)

	_, cmds, ok := b.Step(t0)
	require.True(t, ok)
	view := findTarget(cmds, render.TargetView).(render.View)
	assert.Equal(t, dashboard.TabSoftware, view.Index)
	assert.Equal(t, "Software View", view.Name)

	require.NoError(t, b.Select(dashboard.ControlCartView, 3)) // 3d model
	assert.Equal(t, dashboard.TabMechanical, b.State().Tab)
}

func TestCartBoard_RejectsUnknown(t *testing.T) {
	_, err := dashboard.NewCartBoard(dashboard.CartOptions{Interval: interval, View: "x", Component: "all", Status: "all"}, testEnv())
	assert.Error(t, err)
	_, err = dashboard.NewCartBoard(dashboard.CartOptions{Interval: interval, View: "data_flow", Component: "wheels", Status: "all"}, testEnv())
	assert.Error(t, err)
	_, err = dashboard.NewCartBoard(dashboard.CartOptions{Interval: interval, View: "data_flow", Component: "all", Status: "late"}, testEnv())
	assert.Error(t, err)

	b := newCartBoard(t)
	assert.ErrorIs(t, b.Select(dashboard.ControlStatus, 4), dashboard.ErrUnknownOption)
	assert.ErrorIs(t, b.Select("Theme", 0), dashboard.ErrUnknownControl)
}

func TestCartBoard_ToggleResumes(t *testing.T) {
	b := newCartBoard(t)
	b.Start(t0)
	b.Step(t0)
	b.Stop()
	_, _, ok := b.Step(t0.Add(time.Second))
	assert.False(t, ok)

	b.Start(t0.Add(2 * time.Second))
	frame, _, ok := b.Step(t0.Add(2 * time.Second))
	assert.True(t, ok)
	assert.Equal(t, uint64(2), frame)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
