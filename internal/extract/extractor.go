package extract

import (
	"context"
	"net/mail"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"go.uber.org/zap"
)

// Labels requested from the NLP capability for every message.
var entityLabels = []string{"person name", "company", "location"}

// ContactExtractor assembles vendor contact records from a parsed message.
// Identity enumeration runs in priority order (Reply-To, Sender, From,
// CC/BCC, calendar participants, body) and one contact is produced per
// unique surviving address.
type ContactExtractor struct {
	rules     *rules.Repository
	regex     *RegexExtractor
	scorer    *CompanyScorer
	names     *NameExtractor
	positions *PositionExtractor
	locations *LocationExtractor
	nlp       core.EntityExtractor
	logger    *zap.Logger

	skipKeywords []string
}

// NewContactExtractor wires the extraction chain. nlp may be nil when the
// model capability is disabled; extraction then runs on patterns alone.
func NewContactExtractor(
	repo *rules.Repository,
	regex *RegexExtractor,
	scorer *CompanyScorer,
	names *NameExtractor,
	positions *PositionExtractor,
	locations *LocationExtractor,
	nlp core.EntityExtractor,
	logger *zap.Logger,
) *ContactExtractor {
	e := &ContactExtractor{
		rules:     repo,
		regex:     regex,
		scorer:    scorer,
		names:     names,
		positions: positions,
		locations: locations,
		nlp:       nlp,
		logger:    logger,
	}
	for _, kw := range repo.KeywordsFor("skip_header_keywords") {
		e.skipKeywords = append(e.skipKeywords, strings.ToLower(strings.TrimSpace(kw)))
	}
	return e
}

type identity struct {
	source string
	email  string
}

// ExtractContacts returns every valid vendor contact found in the message.
// ownerEmail is the scanned mailbox's own address, used to reject the
// candidate's identity. cleanBody is the plain-text body after HTML
// stripping.
func (e *ContactExtractor) ExtractContacts(ctx context.Context, pm *ParsedMessage, cleanBody, ownerEmail string) []core.Contact {
	identities := e.enumerateIdentities(pm, cleanBody)
	if len(identities) == 0 {
		return nil
	}

	// One model pass per message feeds every contact built from it.
	var modelName, modelCompany, modelLocation string
	if e.nlp != nil {
		entities, err := e.nlp.ExtractEntities(ctx, cleanBody, entityLabels)
		if err != nil {
			e.logger.Warn("Entity extraction failed, continuing with patterns only", zap.Error(err))
		} else {
			for _, ent := range entities {
				switch ent.Label {
				case "person name":
					if modelName == "" && len(strings.Fields(ent.Text)) >= 2 {
						modelName = strings.TrimSpace(ent.Text)
					}
				case "company":
					if modelCompany == "" {
						modelCompany = strings.TrimSpace(ent.Text)
					}
				case "location":
					if modelLocation == "" {
						modelLocation = strings.TrimSpace(ent.Text)
					}
				}
			}
		}
	}

	spanName, spanCompany := e.scorer.ExtractVendorSpan(pm.HTMLBody)

	var contacts []core.Contact
	seen := map[string]struct{}{}
	for _, id := range identities {
		if _, dup := seen[id.email]; dup {
			continue
		}
		seen[id.email] = struct{}{}

		contact := core.Contact{
			Email:            id.email,
			ExtractionSource: id.source,
			SourceMailbox:    ownerEmail,
			ExtractedFromUID: pm.UID,
		}

		contact.Name = e.resolveName(pm, id.email, cleanBody, spanName, modelName, ownerEmail)
		contact.Phone = e.regex.ExtractPhone(cleanBody)

		if linkedin := e.regex.ExtractLinkedInID(cleanBody); linkedin != "" && ValidLinkedInID(linkedin) {
			contact.LinkedInID = linkedin
		}

		if spanCompany != "" {
			contact.Company = spanCompany
		} else {
			contact.Company = e.scorer.ExtractCompany(cleanBody, pm.HTMLBody, contact.Email, modelCompany)
		}

		loc := e.locations.ExtractLocationWithZip(cleanBody)
		contact.Location = loc.Location
		contact.ZipCode = loc.ZipCode
		if contact.Location == "" && modelLocation != "" {
			contact.Location = modelLocation
		}

		contact.JobPosition = e.positions.Extract(cleanBody, pm.Subject)
		contact.EmploymentType = ExtractEmploymentTypeString(cleanBody, pm.Subject)

		e.reconcileCompanyLocation(&contact)
		e.validateContact(&contact)

		if contact.HasIdentity() {
			contacts = append(contacts, contact)
		}
	}
	return contacts
}

// enumerateIdentities collects candidate addresses in priority order,
// dropping blocked senders and automated addresses.
func (e *ContactExtractor) enumerateIdentities(pm *ParsedMessage, cleanBody string) []identity {
	var out []identity
	add := func(source, email string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || !strings.Contains(email, "@") {
			return
		}
		if e.isSkippedAddress(email) {
			return
		}
		if e.rules.CheckEmail(email) == core.ActionBlock {
			e.logger.Debug("Skipped blocked identity", zap.String("email", email))
			return
		}
		out = append(out, identity{source: source, email: email})
	}

	add("reply-to", parseAddr(pm.ReplyTo))
	add("sender", parseAddr(pm.Sender))
	add("from", parseAddr(pm.From))
	for _, header := range []string{pm.Cc, pm.Bcc} {
		for _, chunk := range strings.Split(header, ",") {
			if addr := parseAddr(strings.TrimSpace(chunk)); addr != "" {
				add("cc", addr)
			}
		}
	}
	for _, addr := range pm.CalendarParticipants() {
		add("calendar", addr)
	}
	if body := e.regex.ExtractEmail(cleanBody); body != "" {
		add("body", body)
	}
	return out
}

func parseAddr(header string) string {
	if header == "" {
		return ""
	}
	addr, err := mail.ParseAddress(header)
	if err != nil {
		return ""
	}
	return addr.Address
}

func (e *ContactExtractor) isSkippedAddress(email string) bool {
	for _, kw := range e.skipKeywords {
		if strings.Contains(email, kw) {
			return true
		}
	}
	return false
}

// resolveName walks the name chain: span vendor info, the header that
// carried the address, signature patterns, the model entity, and finally
// the formatted local part. Every candidate except the local-part fallback
// is rejected when it names the mailbox owner.
func (e *ContactExtractor) resolveName(pm *ParsedMessage, email, cleanBody, spanName, modelName, ownerEmail string) string {
	if spanName != "" && !e.names.IsCandidateName(spanName, ownerEmail) {
		return spanName
	}
	if name := e.names.FromHeaderForEmail(pm, email); name != "" && !e.names.IsCandidateName(name, ownerEmail) {
		return name
	}
	if name := e.names.FromSignature(cleanBody); name != "" && !e.names.IsCandidateName(name, ownerEmail) {
		return name
	}
	if modelName != "" && !e.names.IsCandidateName(modelName, ownerEmail) {
		return modelName
	}
	return e.names.FromEmailLocalPart(email)
}

// reconcileCompanyLocation drops the company when it collides with the
// location; a company equal to or contained in its own location is a
// misclassified place name.
func (e *ContactExtractor) reconcileCompanyLocation(contact *core.Contact) {
	if contact.Company == "" {
		return
	}
	if contact.Location != "" {
		companyLower := strings.ToLower(strings.TrimSpace(contact.Company))
		locationLower := strings.ToLower(strings.TrimSpace(contact.Location))
		if companyLower == locationLower ||
			strings.Contains(locationLower, companyLower) ||
			strings.Contains(companyLower, locationLower) {
			e.logger.Warn("Company overlaps location, dropping company",
				zap.String("company", contact.Company),
				zap.String("location", contact.Location))
			contact.Company = ""
			return
		}
	}
	if e.scorer.isLocation(contact.Company) {
		e.logger.Warn("Company looks like a location, dropping", zap.String("company", contact.Company))
		contact.Company = ""
	}
}

// validateContact normalizes fields and clears the ones that fail their
// format checks.
func (e *ContactExtractor) validateContact(contact *core.Contact) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Company = strings.TrimSpace(contact.Company)
	contact.LinkedInID = strings.TrimSpace(contact.LinkedInID)
	contact.Location = strings.TrimSpace(contact.Location)

	if contact.Email != "" {
		if !strings.Contains(contact.Email, "@") || !strings.Contains(contact.Email, ".") {
			e.logger.Debug("Dropping malformed email", zap.String("email", contact.Email))
			contact.Email = ""
		}
	}
	if contact.Phone != "" && !strings.HasPrefix(contact.Phone, "+") {
		contact.Phone = ""
	}
}
