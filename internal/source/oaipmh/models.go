package oaipmh

import "encoding/xml"

// Response is the OAI-PMH envelope of a ListRecords reply.
type Response struct {
	XMLName     xml.Name     `xml:"OAI-PMH"`
	Error       *OAIError    `xml:"error"`
	ListRecords *ListRecords `xml:"ListRecords"`
}

type OAIError struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

type ListRecords struct {
	Records         []OAIRecord      `xml:"record"`
	ResumptionToken *ResumptionToken `xml:"resumptionToken"`
}

type ResumptionToken struct {
	Value            string `xml:",chardata"`
	CompleteListSize string `xml:"completeListSize,attr"`
	Cursor           string `xml:"cursor,attr"`
}

type OAIRecord struct {
	Raw      string    `xml:",innerxml"`
	Header   Header    `xml:"header"`
	Metadata *Metadata `xml:"metadata"`
}

type Header struct {
	Status     string   `xml:"status,attr"`
	Identifier string   `xml:"identifier"`
	SetSpecs   []string `xml:"setSpec"`
}

type Metadata struct {
	Inner []byte `xml:",innerxml"`
}

// Repository describes one OAI-PMH endpoint to harvest.
type Repository struct {
	BaseURL           string `json:"baseurl"`
	MetadataPrefix    string `json:"metadataPrefix"`
	Set               string `json:"setSpec,omitempty"`
	RepositoryGroupID string `json:"repositoryGroupId,omitempty"`
	RepositoryID      string `json:"repositoryId,omitempty"`
}

// position is the resumption cursor of this source.
type position struct {
	ResumptionToken       string       `json:"resumptionToken,omitempty"`
	RepositoriesRemaining []Repository `json:"repositoriesRemaining,omitempty"`
}
