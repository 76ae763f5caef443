package alert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/valueformatter"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/permission"
)

type DiscordBotConfig struct {
	ChainId          domain.ChainId
	DiscordBotKey    string
	DiscordChannelId string
}

type discordBot struct {
	config  DiscordBotConfig
	discord *discordgo.Session
}

// NewDiscordBot posts an embed to the configured channel whenever a
// permission update goes through.
func NewDiscordBot(config DiscordBotConfig) *discordBot {
	discord, err := discordgo.New(fmt.Sprintf("Bot %s", config.DiscordBotKey))
	if err != nil {
		panic("failed to connect to discord")
	}

	return &discordBot{config, discord}
}

func (b *discordBot) NotifyPermissionUpdated(c ctx.Ctx, approver domain.Address, req *permission.SignerPermissionRequest) {
	targets := "-"
	if len(req.ApprovedTargets) > 0 {
		parts := make([]string, len(req.ApprovedTargets))
		for i, t := range req.ApprovedTargets {
			parts[i] = string(t.ToLower())
		}
		targets = strings.Join(parts, "\n")
	}

	limit, _ := valueformatter.FormatNativeValueString(req.NativeValueLimitPerCall)

	msg := &discordgo.MessageEmbed{
		Title:       "Signer permission updated",
		Description: fmt.Sprintf("chain %d, request %s", b.config.ChainId, req.RequestId),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Signer", Value: string(req.Signer.ToLower())},
			{Name: "Approver", Value: string(approver.ToLower())},
			{Name: "Targets", Value: targets},
			{Name: "Native value limit per call", Value: limit.String()},
			{Name: "Valid from", Value: strconv.FormatInt(req.ValidFrom, 10)},
			{Name: "Valid until", Value: strconv.FormatInt(req.ValidUntil, 10)},
		},
	}

	if _, err := b.discord.ChannelMessageSendEmbed(b.config.DiscordChannelId, msg); err != nil {
		c.WithField("err", err).WithField("requestId", req.RequestId).Error("discord.ChannelMessageSendEmbed failed")
	}
}

func (b *discordBot) NotifyAdminSetChanged(c ctx.Ctx, eventType string, approver, address domain.Address) {
	title := "Admin added"
	if eventType == permission.EventTypeAdminRemoved {
		title = "Admin removed"
	}

	msg := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("chain %d", b.config.ChainId),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Address", Value: string(address.ToLower())},
			{Name: "Approver", Value: string(approver.ToLower())},
		},
	}

	if _, err := b.discord.ChannelMessageSendEmbed(b.config.DiscordChannelId, msg); err != nil {
		c.WithField("err", err).WithField("address", address).Error("discord.ChannelMessageSendEmbed failed")
	}
}
