package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/NhatBangLe/sc-project-service/internal/project/testutil"
)

func createStage(t *testing.T, env *testutil.TestEnv, req *service.CreateStageRequest) string {
	t.Helper()
	id, err := env.Services.Stage.CreateStage(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateStage failed: %v", err)
	}
	return id
}

func TestCreateStage(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1", "u2")
	projectID := createProject(t, env, &service.CreateProjectRequest{
		Name: "P", OwnerID: "u1", MemberIDs: []string{"u2"},
	})

	id := createStage(t, env, &service.CreateStageRequest{
		Name:           "Collection",
		ProjectOwnerID: projectID,
		MemberIDs:      []string{"u2", "u1"},
	})

	stage, err := env.Services.Stage.GetStage(context.Background(), id)
	if err != nil {
		t.Fatalf("GetStage failed: %v", err)
	}
	if stage.ProjectID != projectID {
		t.Errorf("Expected project %s, got %s", projectID, stage.ProjectID)
	}
	if len(stage.Members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(stage.Members))
	}
}

func TestCreateStageMemberOutsideProject(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1", "u2")
	projectID := createProject(t, env, &service.CreateProjectRequest{Name: "P", OwnerID: "u1"})

	// u2 存在但不是项目成员
	_, err := env.Services.Stage.CreateStage(context.Background(), &service.CreateStageRequest{
		Name:           "S",
		ProjectOwnerID: projectID,
		MemberIDs:      []string{"u2"},
	})
	if !errors.Is(err, service.ErrIllegalAttribute) {
		t.Errorf("Expected ErrIllegalAttribute, got %v", err)
	}
}

func TestCreateStageFormFromAnotherProject(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1")
	ctx := context.Background()
	p1 := createProject(t, env, &service.CreateProjectRequest{Name: "P1", OwnerID: "u1"})
	p2 := createProject(t, env, &service.CreateProjectRequest{Name: "P2", OwnerID: "u1"})

	formID, err := env.Services.Form.CreateForm(ctx, &service.CreateFormRequest{
		Title: "F", ProjectOwnerID: p2,
	})
	if err != nil {
		t.Fatalf("CreateForm failed: %v", err)
	}

	_, err = env.Services.Stage.CreateStage(ctx, &service.CreateStageRequest{
		Name:           "S",
		ProjectOwnerID: p1,
		FormID:         formID,
	})
	if !errors.Is(err, service.ErrIllegalAttribute) {
		t.Errorf("Expected ErrIllegalAttribute, got %v", err)
	}
}

func TestCreateStageUnknownProject(t *testing.T) {
	env := testutil.SetupEnv(t)

	_, err := env.Services.Stage.CreateStage(context.Background(), &service.CreateStageRequest{
		Name:           "S",
		ProjectOwnerID: "no-such-project",
	})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStageUpdateMemberNotInProject(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1", "u2")
	projectID := createProject(t, env, &service.CreateProjectRequest{Name: "P", OwnerID: "u1"})
	stageID := createStage(t, env, &service.CreateStageRequest{Name: "S", ProjectOwnerID: projectID})

	// 阶段成员只能来自项目成员，远端存在与否无关
	err := env.Services.Stage.UpdateMember(context.Background(), stageID, &service.MemberRequest{
		MemberID: "u2",
		Operator: entity.MemberOperatorAdd,
	})
	if !errors.Is(err, service.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
}

func TestStageUpdateMemberAddAndRemove(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1", "u2")
	ctx := context.Background()
	projectID := createProject(t, env, &service.CreateProjectRequest{
		Name: "P", OwnerID: "u1", MemberIDs: []string{"u2"},
	})
	stageID := createStage(t, env, &service.CreateStageRequest{Name: "S", ProjectOwnerID: projectID})

	add := &service.MemberRequest{MemberID: "u2", Operator: entity.MemberOperatorAdd}
	if err := env.Services.Stage.UpdateMember(ctx, stageID, add); err != nil {
		t.Fatalf("ADD failed: %v", err)
	}
	if err := env.Services.Stage.UpdateMember(ctx, stageID, add); !errors.Is(err, service.ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate ADD, got %v", err)
	}

	in, err := env.Services.Stage.CheckMember(ctx, stageID, "u2")
	if err != nil {
		t.Fatalf("CheckMember failed: %v", err)
	}
	if !in {
		t.Error("Expected u2 to be a stage member")
	}

	remove := &service.MemberRequest{MemberID: "u2", Operator: entity.MemberOperatorRemove}
	if err := env.Services.Stage.UpdateMember(ctx, stageID, remove); err != nil {
		t.Fatalf("REMOVE failed: %v", err)
	}
	if err := env.Services.Stage.UpdateMember(ctx, stageID, remove); !errors.Is(err, service.ErrConflict) {
		t.Errorf("Expected ErrConflict on absent REMOVE, got %v", err)
	}
}

func TestCheckUserInAnyStage(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1", "u2")
	ctx := context.Background()
	projectID := createProject(t, env, &service.CreateProjectRequest{
		Name: "P", OwnerID: "u1", MemberIDs: []string{"u2"},
	})
	createStage(t, env, &service.CreateStageRequest{
		Name: "S", ProjectOwnerID: projectID, MemberIDs: []string{"u2"},
	})

	in, err := env.Services.Project.CheckUserInAnyStage(ctx, projectID, "u2")
	if err != nil {
		t.Fatalf("CheckUserInAnyStage failed: %v", err)
	}
	if !in {
		t.Error("Expected u2 found in a stage")
	}

	in, err = env.Services.Project.CheckUserInAnyStage(ctx, projectID, "u1")
	if err != nil {
		t.Fatalf("CheckUserInAnyStage failed: %v", err)
	}
	if in {
		t.Error("Expected u1 not found in any stage")
	}
}

func TestListStagesUnknownProject(t *testing.T) {
	env := testutil.SetupEnv(t)

	_, err := env.Services.Stage.ListStages(context.Background(), "no-such-project", 0, 6)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStageDates(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1")
	ctx := context.Background()
	projectID := createProject(t, env, &service.CreateProjectRequest{Name: "P", OwnerID: "u1"})
	stageID := createStage(t, env, &service.CreateStageRequest{
		Name:           "S",
		ProjectOwnerID: projectID,
		StartDate:      date(2024, 3, 1),
		EndDate:        date(2024, 3, 10),
	})

	err := env.Services.Stage.UpdateStage(ctx, stageID, &service.UpdateStageRequest{
		EndDate: date(2024, 2, 1),
	})
	if !errors.Is(err, service.ErrIllegalAttribute) {
		t.Fatalf("Expected ErrIllegalAttribute, got %v", err)
	}

	if err := env.Services.Stage.UpdateStage(ctx, stageID, &service.UpdateStageRequest{
		EndDate: date(2024, 3, 20),
	}); err != nil {
		t.Fatalf("UpdateStage failed: %v", err)
	}
	stage, err := env.Services.Stage.GetStage(ctx, stageID)
	if err != nil {
		t.Fatalf("GetStage failed: %v", err)
	}
	if !stage.EndDate.Equal(*date(2024, 3, 20)) {
		t.Errorf("End date not updated: %v", stage.EndDate)
	}
}

func TestDeleteStageCascadesSamples(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1")
	env.Files.Know("att-1")
	ctx := context.Background()
	projectID := createProject(t, env, &service.CreateProjectRequest{Name: "P", OwnerID: "u1"})
	stageID := createStage(t, env, &service.CreateStageRequest{Name: "S", ProjectOwnerID: projectID})

	sampleID, err := env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1",
		StageID:      stageID,
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	if err := env.Services.Stage.DeleteStage(ctx, stageID); err != nil {
		t.Fatalf("DeleteStage failed: %v", err)
	}

	if _, err := env.Services.Stage.GetStage(ctx, stageID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected stage gone, got %v", err)
	}
	if _, err := env.Services.Sample.GetSample(ctx, sampleID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected sample gone, got %v", err)
	}

	deleted := env.Files.Deleted()
	if len(deleted) != 1 || deleted[0] != "att-1" {
		t.Errorf("Expected attachment deleted once, got %v", deleted)
	}
}
