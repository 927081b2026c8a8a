package sqlinline

const QSelectIntegrationToken = `--sql 32f4d42f-6591-4ce0-b61c-e8b8ab2e977a
select token
from integration_tokens
where provider = $1::text
limit 1;
`

// Properties are merged so a rotated key keeps earlier metadata.
const QUpsertIntegrationToken = `--sql 803b383d-a2e7-455a-9537-d103b304bd07
insert into integration_tokens (provider, token, properties, created_at, updated_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`
