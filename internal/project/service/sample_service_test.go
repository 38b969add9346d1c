package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/NhatBangLe/sc-project-service/internal/project/testutil"
)

// sampleFixture 准备一条带表单字段的项目/阶段链路
type sampleFixture struct {
	env       *testutil.TestEnv
	projectID string
	stageID   string
	fieldID   string
}

func newSampleFixture(t *testing.T) *sampleFixture {
	t.Helper()
	env := testutil.SetupEnv(t)
	env.Users.Know("u1")
	env.Files.Know("att-1")
	ctx := context.Background()

	projectID := createProject(t, env, &service.CreateProjectRequest{Name: "P", OwnerID: "u1"})
	formID, err := env.Services.Form.CreateForm(ctx, &service.CreateFormRequest{
		Title: "F", ProjectOwnerID: projectID,
	})
	if err != nil {
		t.Fatalf("CreateForm failed: %v", err)
	}
	fieldID, err := env.Services.Field.CreateField(ctx, formID, &service.CreateFieldRequest{
		FieldName: "temperature",
	})
	if err != nil {
		t.Fatalf("CreateField failed: %v", err)
	}
	stageID := createStage(t, env, &service.CreateStageRequest{
		Name: "S", ProjectOwnerID: projectID, FormID: formID,
	})
	return &sampleFixture{env: env, projectID: projectID, stageID: stageID, fieldID: fieldID}
}

func TestCreateSampleWithChildren(t *testing.T) {
	fx := newSampleFixture(t)
	ctx := context.Background()

	order := 2
	id, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1",
		Position:     "R1C3",
		StageID:      fx.stageID,
		Answers: []service.AnswerUpsertRequest{
			{Value: "21.5", FieldID: fx.fieldID},
		},
		DynamicFields: []service.CreateDynamicFieldRequest{
			{Name: "humidity", Value: "40%", NumberOrder: &order},
		},
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	sample, err := fx.env.Services.Sample.GetSample(ctx, id)
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	// 项目归属由阶段推导
	if sample.ProjectID != fx.projectID {
		t.Errorf("Expected project %s, got %s", fx.projectID, sample.ProjectID)
	}
	if len(sample.Answers) != 1 || sample.Answers[0].Value != "21.5" {
		t.Fatalf("Unexpected answers: %+v", sample.Answers)
	}
	if sample.Answers[0].Field == nil || sample.Answers[0].Field.Name != "temperature" {
		t.Errorf("Expected answer to carry field definition, got %+v", sample.Answers[0].Field)
	}
	if len(sample.DynamicFields) != 1 || sample.DynamicFields[0].NumberOrder != 2 {
		t.Errorf("Unexpected dynamic fields: %+v", sample.DynamicFields)
	}
}

func TestCreateSampleDuplicateAnswerRollsBack(t *testing.T) {
	fx := newSampleFixture(t)
	ctx := context.Background()

	_, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1",
		StageID:      fx.stageID,
		Answers: []service.AnswerUpsertRequest{
			{Value: "a", FieldID: fx.fieldID},
			{Value: "b", FieldID: fx.fieldID},
		},
	})
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}

	// 整个事务必须回滚，不留半成品
	var samples, answers int64
	fx.env.DB.Model(&entity.Sample{}).Count(&samples)
	fx.env.DB.Model(&entity.Answer{}).Count(&answers)
	if samples != 0 || answers != 0 {
		t.Errorf("Expected rollback, found %d samples and %d answers", samples, answers)
	}
}

func TestCreateSampleUnknownField(t *testing.T) {
	fx := newSampleFixture(t)

	_, err := fx.env.Services.Sample.CreateSample(context.Background(), &service.CreateSampleRequest{
		AttachmentID: "att-1",
		StageID:      fx.stageID,
		Answers: []service.AnswerUpsertRequest{
			{Value: "x", FieldID: "no-such-field"},
		},
	})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCreateSampleUnknownAttachment(t *testing.T) {
	fx := newSampleFixture(t)

	_, err := fx.env.Services.Sample.CreateSample(context.Background(), &service.CreateSampleRequest{
		AttachmentID: "no-such-file",
		StageID:      fx.stageID,
	})
	if !errors.Is(err, service.ErrIllegalAttribute) {
		t.Errorf("Expected ErrIllegalAttribute, got %v", err)
	}
}

func TestCreateSampleUnknownStage(t *testing.T) {
	fx := newSampleFixture(t)

	_, err := fx.env.Services.Sample.CreateSample(context.Background(), &service.CreateSampleRequest{
		AttachmentID: "att-1",
		StageID:      "no-such-stage",
	})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSamplePosition(t *testing.T) {
	fx := newSampleFixture(t)
	ctx := context.Background()

	id, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1",
		Position:     "old",
		StageID:      fx.stageID,
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	pos := "new"
	if err := fx.env.Services.Sample.UpdateSample(ctx, id, &service.UpdateSampleRequest{Position: &pos}); err != nil {
		t.Fatalf("UpdateSample failed: %v", err)
	}
	sample, err := fx.env.Services.Sample.GetSample(ctx, id)
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if sample.Position != "new" {
		t.Errorf("Expected position new, got %s", sample.Position)
	}
}

func TestUpdateAnswer(t *testing.T) {
	fx := newSampleFixture(t)
	ctx := context.Background()

	id, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1",
		StageID:      fx.stageID,
		Answers:      []service.AnswerUpsertRequest{{Value: "old", FieldID: fx.fieldID}},
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	value := "new"
	if err := fx.env.Services.Sample.UpdateAnswer(ctx, id, fx.fieldID, &service.UpdateAnswerRequest{Value: &value}); err != nil {
		t.Fatalf("UpdateAnswer failed: %v", err)
	}
	sample, err := fx.env.Services.Sample.GetSample(ctx, id)
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if sample.Answers[0].Value != "new" {
		t.Errorf("Expected answer new, got %s", sample.Answers[0].Value)
	}
}

func TestUpdateAnswerNullValue(t *testing.T) {
	fx := newSampleFixture(t)

	err := fx.env.Services.Sample.UpdateAnswer(context.Background(), "s", fx.fieldID, &service.UpdateAnswerRequest{})
	if !errors.Is(err, service.ErrIllegalAttribute) {
		t.Errorf("Expected ErrIllegalAttribute, got %v", err)
	}
}

func TestUpdateAnswerMissingDoesNotCreate(t *testing.T) {
	fx := newSampleFixture(t)
	ctx := context.Background()

	// 样本存在但没有这个字段的答案
	id, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1",
		StageID:      fx.stageID,
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	value := "v"
	err = fx.env.Services.Sample.UpdateAnswer(ctx, id, fx.fieldID, &service.UpdateAnswerRequest{Value: &value})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	var answers int64
	fx.env.DB.Model(&entity.Answer{}).Count(&answers)
	if answers != 0 {
		t.Errorf("Expected no answer created, found %d", answers)
	}
}

func TestDeleteSampleEnqueuesAttachment(t *testing.T) {
	fx := newSampleFixture(t)
	ctx := context.Background()

	id, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1",
		StageID:      fx.stageID,
		Answers:      []service.AnswerUpsertRequest{{Value: "x", FieldID: fx.fieldID}},
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	if err := fx.env.Services.Sample.DeleteSample(ctx, id); err != nil {
		t.Fatalf("DeleteSample failed: %v", err)
	}

	if _, err := fx.env.Services.Sample.GetSample(ctx, id); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected sample gone, got %v", err)
	}
	var answers int64
	fx.env.DB.Model(&entity.Answer{}).Count(&answers)
	if answers != 0 {
		t.Errorf("Expected answers removed, found %d", answers)
	}

	deleted := fx.env.Files.Deleted()
	if len(deleted) != 1 || deleted[0] != "att-1" {
		t.Errorf("Expected attachment deleted once, got %v", deleted)
	}
}

func TestListSamplesByStageOrderedByCreation(t *testing.T) {
	fx := newSampleFixture(t)
	ctx := context.Background()

	first, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1", StageID: fx.stageID,
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := fx.env.Services.Sample.CreateSample(ctx, &service.CreateSampleRequest{
		AttachmentID: "att-1", StageID: fx.stageID,
	})
	if err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	page, err := fx.env.Services.Sample.ListSamplesByStage(ctx, fx.stageID, 0, 6)
	if err != nil {
		t.Fatalf("ListSamplesByStage failed: %v", err)
	}
	if page.TotalElements != 2 {
		t.Fatalf("Expected 2 samples, got %d", page.TotalElements)
	}
	// 样本按创建时间正序
	if page.Content[0].ID != first || page.Content[1].ID != second {
		t.Errorf("Expected order [%s %s], got [%s %s]", first, second, page.Content[0].ID, page.Content[1].ID)
	}
}
