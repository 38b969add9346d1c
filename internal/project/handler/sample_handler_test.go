package handler_test

import (
	"net/http"
	"testing"

	"github.com/NhatBangLe/sc-project-service/internal/project/testutil"
)

// httpFixture 通过 HTTP 端点搭好项目/表单/字段/阶段
type httpFixture struct {
	env       *testutil.TestEnv
	projectID string
	formID    string
	fieldID   string
	stageID   string
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	env := testutil.SetupEnv(t)
	env.Users.Know("u1")
	env.Files.Know("att-1")

	projectID := createProjectHTTP(t, env, map[string]interface{}{"name": "P", "ownerId": "u1"})

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/form", map[string]interface{}{
		"title": "F", "projectOwnerId": projectID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create form: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	formID := w.Body.String()

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/field/"+formID, map[string]interface{}{
		"fieldName": "temperature",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create field: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	fieldID := w.Body.String()

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/stage", map[string]interface{}{
		"name": "S", "projectOwnerId": projectID, "formId": formID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create stage: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	stageID := w.Body.String()

	return &httpFixture{env: env, projectID: projectID, formID: formID, fieldID: fieldID, stageID: stageID}
}

func (fx *httpFixture) createSample(t *testing.T) string {
	t.Helper()
	w := testutil.DoRequest(fx.env.Router, http.MethodPost, "/api/v1/sample", map[string]interface{}{
		"attachmentId": "att-1",
		"stageId":      fx.stageID,
		"answers": []map[string]interface{}{
			{"value": "21.5", "fieldId": fx.fieldID},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create sample: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return w.Body.String()
}

func TestSampleEndpoints(t *testing.T) {
	fx := newHTTPFixture(t)
	sampleID := fx.createSample(t)

	w := testutil.DoRequest(fx.env.Router, http.MethodGet, "/api/v1/sample/"+sampleID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["stage_id"] != fx.stageID {
		t.Errorf("Expected stage %s, got %v", fx.stageID, resp["stage_id"])
	}

	w = testutil.DoRequest(fx.env.Router, http.MethodPatch, "/api/v1/sample/"+sampleID, map[string]interface{}{
		"position": "R2C1",
	})
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(fx.env.Router, http.MethodDelete, "/api/v1/sample/"+sampleID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(fx.env.Router, http.MethodGet, "/api/v1/sample/"+sampleID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestSampleDuplicateAnswerEndpoint(t *testing.T) {
	fx := newHTTPFixture(t)

	w := testutil.DoRequest(fx.env.Router, http.MethodPost, "/api/v1/sample", map[string]interface{}{
		"attachmentId": "att-1",
		"stageId":      fx.stageID,
		"answers": []map[string]interface{}{
			{"value": "a", "fieldId": fx.fieldID},
			{"value": "b", "fieldId": fx.fieldID},
		},
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateAnswerEndpoint(t *testing.T) {
	fx := newHTTPFixture(t)
	sampleID := fx.createSample(t)

	w := testutil.DoRequest(fx.env.Router, http.MethodPatch, "/api/v1/sample/"+sampleID+"/answer", map[string]interface{}{
		"value":   "23.0",
		"fieldId": fx.fieldID,
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	// value 缺省（null）是非法属性
	w = testutil.DoRequest(fx.env.Router, http.MethodPatch, "/api/v1/sample/"+sampleID+"/answer", map[string]interface{}{
		"fieldId": fx.fieldID,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for null value, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListSamplesByStageEndpoint(t *testing.T) {
	fx := newHTTPFixture(t)
	fx.createSample(t)
	fx.createSample(t)

	w := testutil.DoRequest(fx.env.Router, http.MethodGet, "/api/v1/sample/"+fx.stageID+"/stage", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["totalElements"] != float64(2) {
		t.Errorf("Expected 2 samples, got %v", resp["totalElements"])
	}
}

func TestDeleteFormInUseEndpoint(t *testing.T) {
	fx := newHTTPFixture(t)

	w := testutil.DoRequest(fx.env.Router, http.MethodDelete, "/api/v1/form/"+fx.formID, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 while form in use, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDynamicFieldEndpoints(t *testing.T) {
	fx := newHTTPFixture(t)
	sampleID := fx.createSample(t)

	w := testutil.DoRequest(fx.env.Router, http.MethodPost, "/api/v1/field/"+sampleID+"/dynamic", map[string]interface{}{
		"name": "note", "value": "v1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	dynamicID := w.Body.String()

	w = testutil.DoRequest(fx.env.Router, http.MethodPatch, "/api/v1/field/"+dynamicID+"/dynamic", map[string]interface{}{
		"value": "v2",
	})
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(fx.env.Router, http.MethodDelete, "/api/v1/field/"+dynamicID+"/dynamic", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(fx.env.Router, http.MethodDelete, "/api/v1/field/"+dynamicID+"/dynamic", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing dynamic field, got %d", w.Code)
	}
}

func TestListFieldsEndpoint(t *testing.T) {
	fx := newHTTPFixture(t)

	w := testutil.DoRequest(fx.env.Router, http.MethodGet, "/api/v1/field/"+fx.formID+"/form", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStageCheckMemberEndpoint(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1", "u2")
	projectID := createProjectHTTP(t, env, map[string]interface{}{
		"name": "P", "ownerId": "u1", "memberIds": []string{"u2"},
	})
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/stage", map[string]interface{}{
		"name": "S", "projectOwnerId": projectID, "memberIds": []string{"u2"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	stageID := w.Body.String()

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/stage/"+stageID+"/member/u2", nil)
	if w.Code != http.StatusOK || w.Body.String() != "true" {
		t.Errorf("Expected 200 true, got %d %q", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/stage/"+stageID+"/member/u1", nil)
	if w.Code != http.StatusOK || w.Body.String() != "false" {
		t.Errorf("Expected 200 false, got %d %q", w.Code, w.Body.String())
	}
}

func TestStageMemberAddOutsideProjectEndpoint(t *testing.T) {
	env := testutil.SetupEnv(t)
	env.Users.Know("u1", "u2")
	projectID := createProjectHTTP(t, env, map[string]interface{}{"name": "P", "ownerId": "u1"})
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/stage", map[string]interface{}{
		"name": "S", "projectOwnerId": projectID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	stageID := w.Body.String()

	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/stage/"+stageID+"/member", map[string]interface{}{
		"memberId": "u2",
		"operator": "ADD",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
}
