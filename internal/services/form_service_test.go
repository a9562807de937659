package services

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/formbay/formbay-be/internal/models"
)

func TestCreateForm(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)

	form, err := svc.CreateForm(owner, models.Form{
		Title:       "Customer survey",
		Description: "Tell us how we did",
		Questions:   sampleQuestions(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if form.ID == "" || form.OwnerID != owner {
		t.Errorf("unexpected form %+v", form)
	}
	for i, q := range form.Questions {
		if q.ID == "" {
			t.Errorf("question %d has no assigned id", i)
		}
	}
}

func TestCreateForm_EmptyQuestions(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)

	_, err := svc.CreateForm(owner, models.Form{
		Title:       "Valid title",
		Description: "Valid description",
	})
	svcErr := assertCode(t, err, ErrorInvalid)
	if !hasFieldDetail(svcErr.Details, "questions") {
		t.Errorf("expected questions detail, got %v", svcErr.Details)
	}
}

func TestCreateForm_MissingTitleAndDescription(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)

	_, err := svc.CreateForm(owner, models.Form{Questions: sampleQuestions()})
	svcErr := assertCode(t, err, ErrorInvalid)
	if !hasFieldDetail(svcErr.Details, "title") || !hasFieldDetail(svcErr.Details, "description") {
		t.Errorf("expected title and description details, got %v", svcErr.Details)
	}
}

func TestCreateForm_UnknownQuestionType(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)

	_, err := svc.CreateForm(owner, models.Form{
		Title:       "Quiz",
		Description: "A quiz",
		Questions:   []models.Question{{Text: "Pick one", Type: "dropdown"}},
	})
	assertCode(t, err, ErrorInvalid)
}

func TestGetFormByID_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)

	questions := []models.Question{
		{Text: "Q1", Type: models.QuestionShortText, Required: true},
		{Text: "Q2", Type: models.QuestionMultipleChoice, Options: []string{"a", "b", "c"}},
		{Text: "Q3", Type: models.QuestionCheckbox, Options: []string{"x", "y"}},
	}
	created, err := svc.CreateForm(owner, models.Form{
		Title:       "Ordered",
		Description: "Order must survive storage",
		Questions:   questions,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fetched, err := svc.GetFormByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Title != created.Title || fetched.Description != created.Description {
		t.Errorf("title/description changed across storage: %+v", fetched)
	}
	if !reflect.DeepEqual(fetched.Questions, created.Questions) {
		t.Errorf("questions changed across storage:\ncreated: %+v\nfetched: %+v", created.Questions, fetched.Questions)
	}
}

func TestListForms_Pagination(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)

	for i := 0; i < 25; i++ {
		_, err := svc.CreateForm(owner, models.Form{
			Title:       fmt.Sprintf("Form %02d", i),
			Description: "d",
			Questions:   sampleQuestions(),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	forms, total, err := svc.ListForms(2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 25 {
		t.Errorf("expected total 25, got %d", total)
	}
	if len(forms) != 10 {
		t.Fatalf("expected 10 forms on page 2, got %d", len(forms))
	}
	// Insertion order: page 2 starts at the 11th form.
	if forms[0].Title != "Form 10" {
		t.Errorf("expected page 2 to start at Form 10, got %q", forms[0].Title)
	}

	forms, _, err = svc.ListForms(3, 10)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(forms) != 5 {
		t.Errorf("expected 5 forms on the last page, got %d", len(forms))
	}
}

func TestUpdateForm(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)
	form, err := svc.CreateForm(owner, models.Form{
		Title: "Before", Description: "d", Questions: sampleQuestions(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "After"
	updated, err := svc.UpdateForm(form.ID, owner, FormPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "After" || updated.Description != "d" {
		t.Errorf("patch did not merge: %+v", updated)
	}
	if len(updated.Questions) != len(form.Questions) {
		t.Errorf("questions changed by unrelated patch")
	}

	// Patching to an invalid state is rejected.
	empty := ""
	_, err = svc.UpdateForm(form.ID, owner, FormPatch{Title: &empty})
	assertCode(t, err, ErrorInvalid)
}

func TestUpdateForm_NonOwner(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)
	form, err := svc.CreateForm(owner, models.Form{
		Title: "Mine", Description: "d", Questions: sampleQuestions(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Stolen"
	_, err = svc.UpdateForm(form.ID, "intruder", FormPatch{Title: &title})
	assertCode(t, err, ErrorForbidden)
}

func TestDeleteForm(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)
	form, err := svc.CreateForm(owner, models.Form{
		Title: "Doomed", Description: "d", Questions: sampleQuestions(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.DeleteForm(form.ID, "intruder")
	assertCode(t, err, ErrorForbidden)

	if err := svc.DeleteForm(form.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = svc.GetFormByID(form.ID)
	assertCode(t, err, ErrorNotFound)

	err = svc.DeleteForm(form.ID, owner)
	assertCode(t, err, ErrorNotFound)
}

func TestQuestionCRUD(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)
	form, err := svc.CreateForm(owner, models.Form{
		Title: "Quiz", Description: "d", Questions: sampleQuestions(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	added, err := svc.AddQuestion(form.ID, owner, models.Question{
		Text: "A third question", Type: models.QuestionShortText,
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if added.ID == "" {
		t.Error("added question has no id")
	}

	questions, err := svc.ListQuestions(form.ID)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[2].ID != added.ID {
		t.Error("new question not appended at the end")
	}

	text := "Renamed"
	required := true
	updatedQ, err := svc.UpdateQuestion(form.ID, owner, questions[0].ID, QuestionPatch{Text: &text, Required: &required})
	if err != nil {
		t.Fatalf("update question: %v", err)
	}
	if updatedQ.Text != "Renamed" || !updatedQ.Required {
		t.Errorf("patch did not apply: %+v", updatedQ)
	}

	got, err := svc.GetQuestion(form.ID, questions[0].ID)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if got.Text != "Renamed" {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := svc.RemoveQuestion(form.ID, owner, questions[1].ID); err != nil {
		t.Fatalf("remove question: %v", err)
	}
	questions, err = svc.ListQuestions(form.ID)
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions after removal, got %d", len(questions))
	}
}

func TestRemoveQuestion_LastOne(t *testing.T) {
	db := newTestDB(t)
	owner := newOwner(t, db)
	svc := NewFormService(db)
	form, err := svc.CreateForm(owner, models.Form{
		Title:       "Single",
		Description: "d",
		Questions:   []models.Question{{Text: "Only", Type: models.QuestionShortText}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.RemoveQuestion(form.ID, owner, form.Questions[0].ID)
	svcErr := assertCode(t, err, ErrorInvalid)
	if !hasFieldDetail(svcErr.Details, "questions") {
		t.Errorf("expected questions detail, got %v", svcErr.Details)
	}
}
