package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileInput struct {
	Platform   string   `json:"platform" validate:"required,oneof=linkedin twitter"`
	ProfileURL string   `json:"profileUrl" validate:"required,url"`
	Followers  *int     `json:"followersCount" validate:"omitempty,gte=0"`
	IDs        []string `json:"ids" validate:"omitempty,max=2"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	neg := -1
	err := Struct(profileInput{Platform: "myspace", ProfileURL: "not a url", Followers: &neg})
	require.Error(t, err)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, "must be one of: linkedin, twitter", e.Fields["platform"])
	assert.Equal(t, "must be a valid URL", e.Fields["profileUrl"])
	assert.Equal(t, "must be greater than or equal to 0", e.Fields["followersCount"])
	assert.True(t, strings.HasPrefix(e.Message, "Validation failed: "))
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(profileInput{Platform: "linkedin", ProfileURL: "https://linkedin.com/in/ada"}))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("startDate", "2024-03-01", "datetime=2006-01-02"))

	err := Var("startDate", "03/01/2024", "datetime=2006-01-02")
	require.Error(t, err)
	e, _ := apperr.As(err)
	assert.Equal(t, "must match format 2006-01-02", e.Fields["startDate"])
}

func TestParseBody(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var in profileInput
		if err := ParseBody(c, &in); err != nil {
			return apperr.Respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"platform":`, fiber.StatusBadRequest},
		{"invalid fields", `{"platform":"linkedin"}`, fiber.StatusBadRequest},
		{"ok", `{"platform":"twitter","profileUrl":"https://x.com/ada"}`, fiber.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestParamAndQueryHelpers(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		if _, err := ParamUUID(c, "id"); err != nil {
			return apperr.Respond(c, err)
		}
		owner, err := QueryUUID(c, "owner")
		if err != nil {
			return apperr.Respond(c, err)
		}
		stage, err := QueryEnum(c, "stage", "lead", "closed")
		if err != nil {
			return apperr.Respond(c, err)
		}
		if _, err := QueryDate(c, "from"); err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(fiber.Map{"owner": owner, "stage": stage})
	})

	cases := []struct {
		path string
		want int
	}{
		{"/items/00000000-0000-0000-0000-000000000001", 200},
		{"/items/00000000-0000-0000-0000-000000000001?owner=00000000-0000-0000-0000-000000000002&stage=closed", 200},
		{"/items/abc", 400},
		{"/items/00000000-0000-0000-0000-000000000001?owner=abc", 400},
		{"/items/00000000-0000-0000-0000-000000000001?stage=won", 400},
		{"/items/00000000-0000-0000-0000-000000000001?from=2024-02-29", 200},
		{"/items/00000000-0000-0000-0000-000000000001?from=29/02/2024", 400},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, tc.path)
	}
}
