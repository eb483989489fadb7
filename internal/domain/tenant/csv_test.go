package tenant

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-match-go/pkg/logger"
)

func importService(repo *fakeTenantRepo) *Service {
	return NewService(repo, &fakePostcodes{}, 10, logger.NewDiscard())
}

func TestCheckImportHeaderCleanFile(t *testing.T) {
	svc := importService(newFakeTenantRepo())
	header := "Name,Email,Phone,Postcode,HasPet,InEET,PassedCreditCheck,OnBenefits,Over35,HasGuarantor\n"

	messages, err := svc.CheckImportHeader(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestCheckImportHeaderReportsMissingAndUnknownColumns(t *testing.T) {
	svc := importService(newFakeTenantRepo())
	header := "name,email,FavouriteColour\n"

	messages, err := svc.CheckImportHeader(strings.NewReader(header))
	require.NoError(t, err)

	var dangers, warnings []string
	for _, msg := range messages {
		switch msg.Level {
		case MessageLevelDanger:
			dangers = append(dangers, msg.Text)
		case MessageLevelWarning:
			warnings = append(warnings, msg.Text)
		}
	}

	// Eight canonical columns are absent; the stray one is only a warning.
	assert.Len(t, dangers, 8)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "FavouriteColour")
	for _, text := range dangers {
		assert.Contains(t, text, "missing")
	}
}

func TestCheckImportHeaderIsCaseInsensitive(t *testing.T) {
	svc := importService(newFakeTenantRepo())
	header := "NAME,EMAIL,PHONE,POSTCODE,haspet,ineet,passedcreditcheck,onbenefits,over35,hasguarantor\n"

	messages, err := svc.CheckImportHeader(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestCheckImportHeaderEmptyFile(t *testing.T) {
	svc := importService(newFakeTenantRepo())
	_, err := svc.CheckImportHeader(strings.NewReader(""))
	require.Error(t, err)
}

func TestImportReplacesExistingTenants(t *testing.T) {
	repo := newFakeTenantRepo()
	repo.tenants = []Tenant{{ID: "old", Name: "Old Tenant"}}
	svc := importService(repo)

	file := "Name,Email\nAda Lovelace,ada@example.com\nGrace Hopper,grace@example.com\n"
	report, err := svc.Import(context.Background(), strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.SkippedRows)
	require.Len(t, repo.tenants, 2)
	assert.Equal(t, "Ada Lovelace", repo.tenants[0].Name)
}

func TestImportSkipsNamelessRows(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := importService(repo)

	file := "Name,Email\nAda Lovelace,ada@example.com\n,ghost@example.com\n"
	report, err := svc.Import(context.Background(), strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.SkippedRows)
	require.Len(t, report.Messages, 1)
	assert.Equal(t, MessageLevelWarning, report.Messages[0].Level)
	assert.Contains(t, report.Messages[0].Text, "row 3")
}

func TestImportParsesFlagVariants(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := importService(repo)

	file := "Name,HasPet,InEET,Over35,HasGuarantor\n" +
		"Ada,yes,FALSE,1,N\n"
	report, err := svc.Import(context.Background(), strings.NewReader(file))
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)

	record := repo.tenants[0]
	require.NotNil(t, record.HasPet)
	assert.True(t, *record.HasPet)
	require.NotNil(t, record.InEET)
	assert.False(t, *record.InEET)
	require.NotNil(t, record.Over35)
	assert.True(t, *record.Over35)
	require.NotNil(t, record.HasGuarantor)
	assert.False(t, *record.HasGuarantor)
}

func TestImportUnparseableFlagLeavesFieldNull(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := importService(repo)

	file := "Name,HasPet\nAda,perhaps\n"
	report, err := svc.Import(context.Background(), strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Nil(t, repo.tenants[0].HasPet)
}

func TestImportMappingComesFromFileHeader(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := importService(repo)

	// Columns in a different order from the canonical export.
	file := "Email,Name,Phone\nada@example.com,Ada Lovelace,0100\n"
	report, err := svc.Import(context.Background(), strings.NewReader(file))
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)

	record := repo.tenants[0]
	assert.Equal(t, "Ada Lovelace", record.Name)
	assert.Equal(t, "ada@example.com", record.Email)
	assert.Equal(t, "0100", record.Phone)
}

func TestImportInvalidPostcodeWarnsAndKeepsRow(t *testing.T) {
	repo := newFakeTenantRepo()
	// fakePostcodes formats everything verbatim, so use a resolver that
	// rejects the input.
	svc := NewService(repo, &rejectingPostcodes{}, 10, logger.NewDiscard())

	file := "Name,Postcode\nAda,NOT A POSTCODE\n"
	report, err := svc.Import(context.Background(), strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Nil(t, repo.tenants[0].Postcode)
	require.Len(t, report.Messages, 1)
	assert.Equal(t, MessageLevelWarning, report.Messages[0].Level)
}

type rejectingPostcodes struct {
	fakePostcodes
}

func (rejectingPostcodes) Format(raw string) string { return "" }

func TestImportEmptyBodyClearsTable(t *testing.T) {
	repo := newFakeTenantRepo()
	repo.tenants = []Tenant{{ID: "old", Name: "Old Tenant"}}
	svc := importService(repo)

	report, err := svc.Import(context.Background(), strings.NewReader("Name,Email\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, report.Imported)
	assert.Empty(t, repo.tenants)
}
