package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/assetsbridge/internal/codec"
	"github.com/vmunix/assetsbridge/internal/codec/mocks"
	"github.com/vmunix/assetsbridge/internal/history"
	"github.com/vmunix/assetsbridge/internal/scene"
	"github.com/vmunix/assetsbridge/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBridge(m *scene.Memory, taskFile string, rec Recorder) *Bridge {
	return New(m, codec.NewSnapshot(m, testLogger()), Config{TaskFile: taskFile}, rec, testLogger())
}

func TestCheckTaskFile(t *testing.T) {
	assert.ErrorIs(t, CheckTaskFile(""), ErrConfiguration)
	assert.ErrorIs(t, CheckTaskFile("  "), ErrConfiguration)
	assert.ErrorIs(t, CheckTaskFile(PlaceholderTaskFile), ErrConfiguration)
	assert.NoError(t, CheckTaskFile("/work/AssetsBridge.json"))
}

func TestBridge_ConfigurationErrorIsNoOp(t *testing.T) {
	for _, path := range []string{"", PlaceholderTaskFile} {
		t.Run(path, func(t *testing.T) {
			m := scene.NewMemory()
			obj, _ := m.AddObject("Crate", scene.KindMesh, "", m.DefaultCollection())
			b := newBridge(m, path, nil)

			res := b.Export(context.Background(), []string{obj})
			assert.Equal(t, StatusFinished, res.Status)
			require.Len(t, res.Errors(), 1)
			assert.Contains(t, res.Errors()[0].Message, "not configured")
			assert.Nil(t, res.Export)
			_, err := m.Object("Crate")
			assert.NoError(t, err, "scene untouched")

			res = b.Import(context.Background())
			assert.Equal(t, StatusFinished, res.Status)
			assert.Len(t, res.Errors(), 1)
		})
	}
}

func TestBridge_ExportNothingSelected(t *testing.T) {
	taskFile := filepath.Join(t.TempDir(), "AssetsBridge.json")
	res := newBridge(scene.NewMemory(), taskFile, nil).ExportSelected(context.Background())

	assert.Equal(t, StatusFinished, res.Status)
	assert.Empty(t, res.Errors())
	require.Len(t, res.Reports, 1)
	assert.Equal(t, Report{Level: LevelInfo, Message: "nothing selected"}, res.Reports[0])
	_, err := os.Stat(taskFile)
	assert.True(t, os.IsNotExist(err))
}

func TestBridge_RoundTrip(t *testing.T) {
	taskFile := filepath.Join(t.TempDir(), "AssetsBridge.json")
	want := scene.Transform{
		Location: mgl64.Vec3{1.5, -2, 0.25},
		Rotation: mgl64.Vec3{0.1, 0.2, 1.3},
		Scale:    mgl64.Vec3{1, 2, 1},
	}

	src := scene.NewMemory()
	props, _ := src.CreateCollection(src.DefaultCollection(), "Props")
	crate, _ := src.AddObject("Crate", scene.KindMesh, "", props)
	require.NoError(t, src.SetTransform(crate, want))
	src.Select(crate)

	res := newBridge(src, taskFile, nil).ExportSelected(context.Background())
	require.Equal(t, StatusFinished, res.Status, "reports: %v", res.Reports)

	doc, err := task.Load(taskFile)
	require.NoError(t, err)
	assert.Equal(t, task.OperationBlenderExport, doc.Operation)
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, "SM_Crate", doc.Objects[0].ShortName)
	assert.Equal(t, filepath.Join(filepath.Dir(taskFile), "Props", "SM_Crate.fbx"), doc.Objects[0].ExportLocation)

	dst := scene.NewMemory()
	res = newBridge(dst, taskFile, nil).Import(context.Background())
	require.Equal(t, StatusFinished, res.Status, "reports: %v", res.Reports)
	require.NotNil(t, res.Import)
	assert.Equal(t, 1, res.Import.SuccessCount())

	obj, err := dst.Object("SM_Crate")
	require.NoError(t, err)
	assert.Equal(t, []string{"Props"}, obj.Collections)
	parent, _ := dst.ParentCollection("Props")
	assert.Equal(t, dst.DefaultCollection(), parent)

	got, err := dst.Transform("SM_Crate")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want.Location[i], got.Location[i], 1e-6)
		assert.InDelta(t, want.Rotation[i], got.Rotation[i], 1e-6)
		assert.InDelta(t, want.Scale[i], got.Scale[i], 1e-6)
	}
}

func TestBridge_ImportDocumentErrorsCancel(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content *string
		wantErr error
	}{
		{"missing file", nil, task.ErrMissingOrEmpty},
		{"empty file", ptr(""), task.ErrMissingOrEmpty},
		{"malformed", ptr(`{"operation":"UnrealExport"}`), task.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskFile := filepath.Join(dir, tt.name+".json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(taskFile, []byte(*tt.content), 0o644))
			}
			res := newBridge(scene.NewMemory(), taskFile, nil).Import(context.Background())
			assert.Equal(t, StatusCancelled, res.Status)
			require.Len(t, res.Errors(), 1)
			assert.Contains(t, res.Errors()[0].Message, tt.wantErr.Error())
			assert.Nil(t, res.Import)
		})
	}
}

func TestBridge_ImportPartialFailure(t *testing.T) {
	dir := t.TempDir()
	taskFile := filepath.Join(dir, "AssetsBridge.json")

	src := scene.NewMemory()
	a, _ := src.AddObject("SM_A", scene.KindMesh, "", src.DefaultCollection())
	c, _ := src.AddObject("SM_C", scene.KindMesh, "", src.DefaultCollection())
	res := newBridge(src, taskFile, nil).Export(context.Background(), []string{a, c})
	require.Equal(t, StatusFinished, res.Status)

	doc, err := task.Load(taskFile)
	require.NoError(t, err)
	missing := doc.Objects[0]
	missing.ShortName = "SM_B"
	missing.ExportLocation = filepath.Join(dir, "SM_B.fbx")
	doc.Objects = []task.ExportUnit{doc.Objects[0], missing, doc.Objects[1]}
	doc.Operation = task.OperationUnrealExport
	require.NoError(t, task.Save(taskFile, doc))

	store, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dst := scene.NewMemory()
	res = newBridge(dst, taskFile, store).Import(context.Background())
	assert.Equal(t, StatusFinishedWithErrors, res.Status)
	require.Len(t, res.Errors(), 1)
	assert.Contains(t, res.Errors()[0].Message, "SM_B")
	assert.Equal(t, 2, res.Import.SuccessCount())

	_, err = dst.Object("SM_A")
	assert.NoError(t, err)
	_, err = dst.Object("SM_C")
	assert.NoError(t, err)

	runs, err := store.List(context.Background(), history.Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.DirectionImport, runs[0].Direction)
	assert.Equal(t, string(StatusFinishedWithErrors), runs[0].Status)
	assert.Equal(t, "UnrealExport", runs[0].Operation)
	assert.Equal(t, 2, runs[0].Units)
	assert.Equal(t, 1, runs[0].Failures)
}

func TestBridge_ExportCodecFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	taskFile := filepath.Join(t.TempDir(), "AssetsBridge.json")

	m := scene.NewMemory()
	a, _ := m.AddObject("SM_A", scene.KindMesh, "", m.DefaultCollection())
	b, _ := m.AddObject("SM_B", scene.KindMesh, "", m.DefaultCollection())

	mc := mocks.NewMockMeshCodec(ctrl)
	mc.EXPECT().Export(gomock.Any(), gomock.Any(), []string{"SM_A"}, gomock.Any()).Return(errors.New("write failed"))
	mc.EXPECT().Export(gomock.Any(), gomock.Any(), []string{"SM_B"}, gomock.Any()).Return(nil)

	rec := &fakeRecorder{}
	res := New(m, mc, Config{TaskFile: taskFile}, rec, testLogger()).Export(context.Background(), []string{a, b})
	assert.Equal(t, StatusFinishedWithErrors, res.Status)
	require.Len(t, res.Errors(), 1)
	assert.Contains(t, res.Errors()[0].Message, "SM_A")

	doc, err := task.Load(taskFile)
	require.NoError(t, err)
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, "SM_B", doc.Objects[0].ShortName)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, history.DirectionExport, rec.runs[0].Direction)
	assert.Equal(t, 1, rec.runs[0].Units)
	assert.Equal(t, 1, rec.runs[0].Failures)
	assert.Contains(t, rec.runs[0].Data, "write failed")
}

func TestBridge_ExportCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	taskFile := filepath.Join(t.TempDir(), "AssetsBridge.json")
	m := scene.NewMemory()
	a, _ := m.AddObject("SM_A", scene.KindMesh, "", m.DefaultCollection())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &fakeRecorder{}
	res := New(m, mocks.NewMockMeshCodec(ctrl), Config{TaskFile: taskFile}, rec, testLogger()).Export(ctx, []string{a})

	assert.Equal(t, StatusCancelled, res.Status)
	_, err := os.Stat(taskFile)
	assert.True(t, os.IsNotExist(err), "no task file written")
	require.Len(t, rec.runs, 1)
	assert.Equal(t, string(StatusCancelled), rec.runs[0].Status)
}

type fakeRecorder struct {
	runs []*history.Run
}

func (f *fakeRecorder) Add(_ context.Context, r *history.Run) error {
	f.runs = append(f.runs, r)
	return nil
}

func ptr[T any](v T) *T { return &v }
