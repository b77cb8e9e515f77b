package registration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"glsalliance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticOpener(files map[string][]byte) Opener {
	return func(_ context.Context, u *models.PendingUpload) ([]byte, error) {
		data, ok := files[u.ID]
		if !ok {
			return nil, errors.New("missing")
		}
		return data, nil
	}
}

// teaExporter walks the importer branch the way a visitor would.
func teaExporter(t *testing.T) models.RegistrationForm {
	t.Helper()
	f := importerForm(t)
	f = WithCompany(f, CompanyPatch{CompanyName: strPtr("Acme Exports"), Website: strPtr("acme.lk"), RegCountryCode: strPtr("LK")})
	f, err := SelectCategory(f, "tea-exporters-in-sri-lanka")
	require.NoError(t, err)
	f, err = ToggleSubcategory(f, "Bulk black tea")
	require.NoError(t, err)
	f, err = UpdateContact(f, 0, ContactPatch{FullName: strPtr("Jane Doe")})
	require.NoError(t, err)
	f = WithBusiness(f, BusinessPatch{BRCNumber: strPtr("PV99999")})
	f, _ = SetProfileBrief(f, "We export the finest Ceylon tea to buyers in forty countries")
	f, _, err = SetUpload(f, models.UploadCoverPhoto, &models.PendingUpload{
		ID: "cover", Field: models.UploadCoverPhoto, FileName: "cover.png", ContentType: "image/png",
	})
	require.NoError(t, err)
	f, err = ToggleService(f, "Sea Freight")
	require.NoError(t, err)
	return SetSupportedCountries(f, []string{"LK"})
}

func TestBuildPayload_TeaExporter(t *testing.T) {
	f := teaExporter(t)
	png := []byte("\x89PNG\r\n\x1a\n")
	p, err := BuildPayload(context.Background(), &f, staticOpener(map[string][]byte{"cover": png}))
	require.NoError(t, err)

	v := p.Values()
	assert.Equal(t, []string{"importer_exporter"}, v["profile_type"])
	assert.Equal(t, []string{"tea-exporters-in-sri-lanka"}, v["export_main_category_ids[]"])
	assert.Equal(t, []string{"Bulk black tea"}, v["export_subcategories[]"])
	assert.Equal(t, []string{"Jane Doe"}, v["contacts[0][full_name]"])
	assert.Equal(t, []string{"PV99999"}, v["brc_number"])
	assert.Equal(t, []string{"https://acme.lk"}, v["website"])
	assert.Equal(t, []string{"Sri Lanka"}, v["country"])
	assert.Equal(t, []string{"Sri Lanka"}, v["branches_countries[]"])
	assert.Equal(t, []string{"Sri Lanka"}, v["supported_countries"])
	assert.Equal(t, []string{"Sea Freight"}, v["services_provided[]"])

	cover, ok := p.File("company_profile_image")
	require.True(t, ok)
	assert.Equal(t, "cover.png", cover.FileName)
	assert.Equal(t, png, cover.Data)

	// Unanswered tri-states and empty insurance are omitted.
	assert.NotContains(t, v, "netting_required")
	assert.NotContains(t, v, "financial_protection_required")
	assert.NotContains(t, v, "insurance_provider")
	_, ok = p.File("insurance_policy_document")
	assert.False(t, ok)
}

func TestBuildPayload_IsDeterministic(t *testing.T) {
	f := teaExporter(t)
	open := staticOpener(map[string][]byte{"cover": []byte("img")})
	a, err := BuildPayload(context.Background(), &f, open)
	require.NoError(t, err)
	b, err := BuildPayload(context.Background(), &f, open)
	require.NoError(t, err)
	assert.Equal(t, a.Parts, b.Parts)
}

func TestBuildPayload_TriStatesAndSkippedRows(t *testing.T) {
	f := completeServiceProvider(t)
	f = WithCompany(f, CompanyPatch{
		FinancialProtectionRequired: OptionalBool{Set: true, Value: boolPtr(true)},
		NettingRequired:             OptionalBool{Set: true, Value: boolPtr(false)},
	})
	f = AddContact(f)
	f = AddContact(f)
	f, err := UpdateContact(f, 2, ContactPatch{Email: strPtr("ops@acme.lk")})
	require.NoError(t, err)
	f = SeedAffiliations(WithCompany(f, CompanyPatch{RegCountryCode: strPtr("LK")}))
	f = AddAffiliation(f)
	f, err = UpdateAffiliation(f, 1, AffiliationPatch{Name: strPtr("FIATA")})
	require.NoError(t, err)

	p, err := BuildPayload(context.Background(), &f, staticOpener(nil))
	require.NoError(t, err)
	v := p.Values()

	assert.Equal(t, []string{"1"}, v["financial_protection_required"])
	assert.Equal(t, []string{"0"}, v["netting_required"])

	assert.Contains(t, v, "contacts[0][full_name]")
	assert.NotContains(t, v, "contacts[1][full_name]")
	assert.Equal(t, []string{"ops@acme.lk"}, v["contacts[2][email]"])

	assert.NotContains(t, v, "affiliations[0][name]")
	assert.Equal(t, []string{"FIATA"}, v["affiliations[1][name]"])
	assert.Equal(t, []string{"Sri Lanka"}, v["affiliations[1][country]"])
}

func TestBuildPayload_MissingUploadFails(t *testing.T) {
	f := teaExporter(t)
	_, err := BuildPayload(context.Background(), &f, staticOpener(nil))
	assert.Error(t, err)
}

func TestNormalizeWebsite(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		"acme.lk":              "https://acme.lk",
		"  www.acme.lk ":       "https://www.acme.lk",
		"http://acme.lk":       "http://acme.lk",
		"HTTPS://ACME.LK/path": "HTTPS://ACME.LK/path",
		"ftp://x.com":          "ftp://x.com",
		"sftp://files.acme.lk": "sftp://files.acme.lk",
		"acme.lk/a://b":        "https://acme.lk/a://b",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeWebsite(in), in)
	}
}

func TestPayload_WriteParts(t *testing.T) {
	f := teaExporter(t)
	p, err := BuildPayload(context.Background(), &f, staticOpener(map[string][]byte{"cover": []byte("img")}))
	require.NoError(t, err)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, p.WriteParts(w))
	require.NoError(t, w.Close())

	_, params, err := mime.ParseMediaType(w.FormDataContentType())
	require.NoError(t, err)
	r := multipart.NewReader(&buf, params["boundary"])

	var names []string
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, part.FormName())
		if part.FormName() == "company_profile_image" {
			assert.Equal(t, "cover.png", part.FileName())
			assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
		}
	}
	assert.Equal(t, "profile_type", names[0])
	assert.Contains(t, strings.Join(names, ","), "company_profile_image")
	assert.Len(t, names, len(p.Parts))
}

func TestBuildReview(t *testing.T) {
	f := teaExporter(t)
	r := BuildReview(&f)

	titles := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{
		"Profile Type", "Company Information", "Contacts", "Business Registration",
		"Company Profile", "Membership", "Services & Activities", "Insurance Information",
	}, titles)

	values := map[string]string{}
	for _, g := range r.Groups {
		for _, row := range g.Rows {
			values[row.Label] = row.Value
		}
	}
	assert.Equal(t, "Importer / Exporter", values["Profile Type"])
	assert.Equal(t, "Tea", values["Product Category"])
	assert.Equal(t, "—", values["Netting Required"])
	assert.Equal(t, "—", values["Provider"])
	assert.Equal(t, "cover.png", values["Cover Photo"])
	assert.Equal(t, "Sri Lanka", values["Operating Countries"])
	assert.Equal(t, StepServices, r.Groups[6].EditStep)
}
