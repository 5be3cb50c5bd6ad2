package directory

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// AccountDisabled is the userAccountControl bit set on disabled accounts.
const AccountDisabled = 0x2

// Directory attribute names read for every user.
const (
	attrAccountName    = "sAMAccountName"
	attrMail           = "mail"
	attrDisplayName    = "displayName"
	attrDepartment     = "department"
	attrTitle          = "title"
	attrAccountControl = "userAccountControl"
	attrMemberOf       = "memberOf"
	attrDN             = "distinguishedName"
	attrPhone          = "telephoneNumber"
	attrOffice         = "physicalDeliveryOfficeName"
	attrCompany        = "company"
	attrManager        = "manager"
	attrWhenCreated    = "whenCreated"
	attrWhenChanged    = "whenChanged"
	attrLastLogon      = "lastLogonTimestamp"
	attrPwdLastSet     = "pwdLastSet"
)

// userAttributes is the fixed projection requested by every user search.
var userAttributes = []string{
	attrAccountName,
	attrMail,
	attrDisplayName,
	attrDepartment,
	attrTitle,
	attrAccountControl,
	attrMemberOf,
	attrDN,
	attrPhone,
	attrOffice,
	attrCompany,
	attrManager,
	attrWhenCreated,
	attrWhenChanged,
	attrLastLogon,
	attrPwdLastSet,
}

// Attributes is the normalized view of one directory user.
// Optional values are nil when the directory has no usable value for them.
type Attributes struct {
	// AccountName is the logon name (sAMAccountName). Always set.
	AccountName string
	// Mail is the primary e-mail address.
	Mail *string
	// DisplayName is the full name shown in the directory.
	DisplayName *string
	// Department is the organizational unit the user works in.
	Department *string
	// Title is the job title.
	Title *string
	// Phone is the telephone number.
	Phone *string
	// Office is the physical office name.
	Office *string
	// Company is the company name.
	Company *string
	// Manager is the distinguished name of the manager.
	Manager *string
	// AccountControl is the userAccountControl bitmask.
	AccountControl int
	// Groups holds the distinguished names of the groups the user is a direct member of.
	Groups []string
	// DN is the distinguished name of the entry.
	DN string
	// WhenCreated is the creation time of the entry.
	WhenCreated *time.Time
	// WhenChanged is the last modification time of the entry.
	WhenChanged *time.Time
	// LastLogon is the replicated last logon time.
	LastLogon *time.Time
	// PasswordLastSet is the time the password was last changed.
	PasswordLastSet *time.Time
}

// Active reports whether the account is enabled.
func (a *Attributes) Active() bool {
	return a.AccountControl&AccountDisabled == 0
}

// normalize converts a search entry into Attributes.
func normalize(entry *ldap.Entry) (*Attributes, error) {
	accountName := cleanValue(entry.GetAttributeValues(attrAccountName))
	if accountName == nil {
		return nil, fmt.Errorf("%w: entry %q has no account name", ErrDirectoryQuery, entry.DN)
	}

	attrs := &Attributes{
		AccountName:     *accountName,
		Mail:            cleanValue(entry.GetAttributeValues(attrMail)),
		DisplayName:     cleanValue(entry.GetAttributeValues(attrDisplayName)),
		Department:      cleanValue(entry.GetAttributeValues(attrDepartment)),
		Title:           cleanValue(entry.GetAttributeValues(attrTitle)),
		Phone:           cleanValue(entry.GetAttributeValues(attrPhone)),
		Office:          cleanValue(entry.GetAttributeValues(attrOffice)),
		Company:         cleanValue(entry.GetAttributeValues(attrCompany)),
		Manager:         cleanValue(entry.GetAttributeValues(attrManager)),
		AccountControl:  parseAccountControl(entry.GetAttributeValues(attrAccountControl)),
		Groups:          entry.GetAttributeValues(attrMemberOf),
		DN:              entry.DN,
		WhenCreated:     parseGeneralizedTime(cleanValue(entry.GetAttributeValues(attrWhenCreated))),
		WhenChanged:     parseGeneralizedTime(cleanValue(entry.GetAttributeValues(attrWhenChanged))),
		LastLogon:       parseFileTime(cleanValue(entry.GetAttributeValues(attrLastLogon))),
		PasswordLastSet: parseFileTime(cleanValue(entry.GetAttributeValues(attrPwdLastSet))),
	}

	if dn := cleanValue(entry.GetAttributeValues(attrDN)); dn != nil {
		attrs.DN = *dn
	}

	if attrs.Groups == nil {
		attrs.Groups = []string{}
	}

	return attrs, nil
}

// cleanValue maps a raw attribute to an optional string: absent or empty gives nil,
// otherwise the first value.
func cleanValue(values []string) *string {
	if len(values) == 0 {
		return nil
	}

	v := values[0]
	if strings.TrimSpace(v) == "" {
		return nil
	}

	return &v
}

// parseAccountControl parses userAccountControl. Unparsable values count as 0 (enabled).
func parseAccountControl(values []string) int {
	v := cleanValue(values)
	if v == nil {
		return 0
	}

	n, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		return 0
	}

	return n
}

// parseGeneralizedTime parses AD generalized time ("20240115103000.0Z").
func parseGeneralizedTime(v *string) *time.Time {
	if v == nil || len(*v) < 14 {
		return nil
	}

	t, err := time.ParseInLocation("20060102150405", (*v)[:14], time.UTC)
	if err != nil {
		return nil
	}

	return &t
}

// fileTimeEpochOffset is the number of 100ns intervals between 1601-01-01 and 1970-01-01.
const fileTimeEpochOffset = 116444736000000000

// parseFileTime parses a Windows FILETIME. 0 and the maximum value mean "never".
func parseFileTime(v *string) *time.Time {
	if v == nil {
		return nil
	}

	ft, err := strconv.ParseInt(strings.TrimSpace(*v), 10, 64)
	if err != nil || ft <= 0 || ft == math.MaxInt64 || ft < fileTimeEpochOffset {
		return nil
	}

	t := time.Unix(0, (ft-fileTimeEpochOffset)*100).UTC()

	return &t
}
