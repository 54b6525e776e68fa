package docgen

// studentRequest expects a validated student form.
func studentRequest(f Form) StudentDocumentRequest {
	req := StudentDocumentRequest{
		Body:         f.Body,
		DocumentType: f.DocumentType,
		Header:       f.Header,
		Footer:       f.Footer,
	}
	if f.SubjectID != nil {
		req.SubjectID = *f.SubjectID
	}
	return req
}

// institutionRequest expects a validated institution form.
func institutionRequest(f Form) InstitutionDocumentRequest {
	req := InstitutionDocumentRequest{
		Title:        f.Title,
		Body:         f.Body,
		DocumentType: f.DocumentType,
	}
	if f.DocumentDate != nil {
		req.DocumentDate = f.DocumentDate.Format(DateLayout)
	}
	return req
}
