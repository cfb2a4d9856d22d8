package client

import "github.com/regpulse/dataschema/pkg/models"

// Models holds one client per model of the schema
type Models struct {
	Todo                             *ModelClient[models.Todo]
	ProductListItem                  *ModelClient[models.ProductListItem]
	Comment                          *ModelClient[models.Comment]
	Member                           *ModelClient[models.Member]
	Alert                            *ModelClient[models.Alert]
	AlertFeedback                    *ModelClient[models.AlertFeedback]
	AlertInstance                    *ModelClient[models.AlertInstance]
	AlertInstanceGroup               *ModelClient[models.AlertInstanceGroup]
	AlertInstanceLink                *ModelClient[models.AlertInstanceLink]
	Report                           *ModelClient[models.Report]
	AgencySettings                   *ModelClient[models.AgencySettings]
	Workspace                        *ModelClient[models.Workspace]
	WorkspaceUsage                   *ModelClient[models.WorkspaceUsage]
	Organization                     *ModelClient[models.Organization]
	Conversation                     *ModelClient[models.Conversation]
	ConversationMember               *ModelClient[models.ConversationMember]
	Message                          *ModelClient[models.Message]
	ChatbotConversation              *ModelClient[models.ChatbotConversation]
	ChatbotConversationMessageSource *ModelClient[models.ChatbotConversationMessageSource]
	ChatbotConversationMessage       *ModelClient[models.ChatbotConversationMessage]
	Attachment                       *ModelClient[models.Attachment]
	AlertFeedbackTag                 *ModelClient[models.AlertFeedbackTag]
	AlertTag                         *ModelClient[models.AlertTag]
}

func newModels(c *Client) (*Models, error) {
	var err error
	ms := &Models{}
	if ms.Todo, err = NewModelClient[models.Todo](c, "Todo"); err != nil {
		return nil, err
	}
	if ms.ProductListItem, err = NewModelClient[models.ProductListItem](c, "ProductListItem"); err != nil {
		return nil, err
	}
	if ms.Comment, err = NewModelClient[models.Comment](c, "Comment"); err != nil {
		return nil, err
	}
	if ms.Member, err = NewModelClient[models.Member](c, "Member"); err != nil {
		return nil, err
	}
	if ms.Alert, err = NewModelClient[models.Alert](c, "Alert"); err != nil {
		return nil, err
	}
	if ms.AlertFeedback, err = NewModelClient[models.AlertFeedback](c, "AlertFeedback"); err != nil {
		return nil, err
	}
	if ms.AlertInstance, err = NewModelClient[models.AlertInstance](c, "AlertInstance"); err != nil {
		return nil, err
	}
	if ms.AlertInstanceGroup, err = NewModelClient[models.AlertInstanceGroup](c, "AlertInstanceGroup"); err != nil {
		return nil, err
	}
	if ms.AlertInstanceLink, err = NewModelClient[models.AlertInstanceLink](c, "AlertInstanceLink"); err != nil {
		return nil, err
	}
	if ms.Report, err = NewModelClient[models.Report](c, "Report"); err != nil {
		return nil, err
	}
	if ms.AgencySettings, err = NewModelClient[models.AgencySettings](c, "AgencySettings"); err != nil {
		return nil, err
	}
	if ms.Workspace, err = NewModelClient[models.Workspace](c, "Workspace"); err != nil {
		return nil, err
	}
	if ms.WorkspaceUsage, err = NewModelClient[models.WorkspaceUsage](c, "WorkspaceUsage"); err != nil {
		return nil, err
	}
	if ms.Organization, err = NewModelClient[models.Organization](c, "Organization"); err != nil {
		return nil, err
	}
	if ms.Conversation, err = NewModelClient[models.Conversation](c, "Conversation"); err != nil {
		return nil, err
	}
	if ms.ConversationMember, err = NewModelClient[models.ConversationMember](c, "ConversationMember"); err != nil {
		return nil, err
	}
	if ms.Message, err = NewModelClient[models.Message](c, "Message"); err != nil {
		return nil, err
	}
	if ms.ChatbotConversation, err = NewModelClient[models.ChatbotConversation](c, "ChatbotConversation"); err != nil {
		return nil, err
	}
	if ms.ChatbotConversationMessageSource, err = NewModelClient[models.ChatbotConversationMessageSource](c, "ChatbotConversationMessageSource"); err != nil {
		return nil, err
	}
	if ms.ChatbotConversationMessage, err = NewModelClient[models.ChatbotConversationMessage](c, "ChatbotConversationMessage"); err != nil {
		return nil, err
	}
	if ms.Attachment, err = NewModelClient[models.Attachment](c, "Attachment"); err != nil {
		return nil, err
	}
	if ms.AlertFeedbackTag, err = NewModelClient[models.AlertFeedbackTag](c, "AlertFeedbackTag"); err != nil {
		return nil, err
	}
	if ms.AlertTag, err = NewModelClient[models.AlertTag](c, "AlertTag"); err != nil {
		return nil, err
	}
	return ms, nil
}

// Models returns the typed model clients. It is nil for a client built
// with Config.Schema; use NewModelClient there.
func (c *Client) Models() *Models {
	return c.models
}
