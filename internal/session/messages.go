package session

import (
	"fmt"
	"strings"
	"time"
)

type NotificationKind string

const (
	NotificationStarted NotificationKind = "started"
	NotificationEnded   NotificationKind = "ended"
)

// Notification is the payload handed to the delivery layer. Duration is
// empty when the session's start time was lost; ParticipantMentions is
// rendered as an explicit placeholder when empty.
type Notification struct {
	Kind                NotificationKind
	RoomName            string
	RoomLink            string
	RoleMention         string
	Duration            string
	ParticipantMentions []string
}

const (
	messageStartedTitleFormat = ":loud_sound: **%sで通話が始まりました！**"
	messageEndedTitleFormat   = ":wave: **%sでの通話が終了しました！**"
	messageDurationLabel      = "通話時間"
	messageParticipantsLabel  = "参加者"
	messageParticipantsNone   = "なし"

	messageEphemeralNoPermission  = ":warning: **このコマンドを実行する権限がありません。**"
	messageEphemeralUnknownCmd    = ":warning: **不明なコマンドです。**"
	messageEphemeralMissingOption = ":warning: **必要なオプションが指定されていません。**"
	messageEphemeralSaveFailed    = ":warning: **設定の保存に失敗しました。**"
	messageEphemeralDeleteFailed  = ":warning: **設定の削除に失敗しました。**"
	messageEphemeralListFailed    = ":warning: **設定の取得に失敗しました。**"
	messageEphemeralNoConfigs     = "このサーバーには通知設定がありません。"

	messageEphemeralSetupSavedFormat    = ":white_check_mark: **設定を保存しました。**\n通知VC：%s\n通知先：<#%s>"
	messageEphemeralSetupRoleLineFormat = "\nメンション：%s"
	messageEphemeralNotConfiguredFormat = ":warning: <#%s> **は通知設定されていません。**"
	messageEphemeralDeletedFormat       = ":white_check_mark: <#%s> **の通知設定を削除しました。**"

	messageConfigListHeader = ":gear: **通知設定一覧**"

	messageInfo = ":robot: **VC通知Bot 情報**\n" +
		"ボイスチャンネルの通話開始/終了を通知するBotです。\n" +
		"・VC通話開始時の自動通知\n" +
		"・VC通話終了時の自動通知と通話時間表示\n" +
		"・ロールメンション機能\n" +
		"・二重送信防止機能\n" +
		"利用可能なコマンド：/monitor_setup /monitor_delete /show_config /info"
)

func (n Notification) Render() string {
	var b strings.Builder
	if n.RoleMention != "" {
		b.WriteString(n.RoleMention)
		b.WriteString("\n")
	}
	switch n.Kind {
	case NotificationStarted:
		fmt.Fprintf(&b, messageStartedTitleFormat, n.RoomName)
		b.WriteString("\n")
		b.WriteString(n.RoomLink)
	case NotificationEnded:
		fmt.Fprintf(&b, messageEndedTitleFormat, n.RoomName)
		b.WriteString("\n")
		b.WriteString(n.RoomLink)
		if n.Duration != "" {
			fmt.Fprintf(&b, "\n%s：%s", messageDurationLabel, n.Duration)
		}
		fmt.Fprintf(&b, "\n%s：", messageParticipantsLabel)
		if len(n.ParticipantMentions) == 0 {
			b.WriteString(messageParticipantsNone)
		} else {
			b.WriteString("\n")
			b.WriteString(strings.Join(n.ParticipantMentions, "\n"))
		}
	}
	return b.String()
}

func roomLink(guildID, roomID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s", guildID, roomID)
}

func roleMention(roleID string) string {
	return fmt.Sprintf("<@&%s>", roleID)
}

func userMention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// formatDurationHMS renders a duration as zero-padded HH:MM:SS with an
// unbounded hour count, truncated to whole seconds.
func formatDurationHMS(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
